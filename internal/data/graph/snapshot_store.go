package graph

import (
	"context"
	"sort"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
)

// SnapshotStore answers every Store query from an in-memory catalogue. It never fails and is
// safe for concurrent use since nothing is mutated after construction.
type SnapshotStore struct {
	courses []catalog.Course
	byID    map[int64]catalog.Course
	prereqs map[int64][]int64
	edges   []catalog.PrerequisiteEdge
}

func NewSnapshotStore(snap *catalog.Snapshot) *SnapshotStore {
	s := &SnapshotStore{
		byID:    map[int64]catalog.Course{},
		prereqs: map[int64][]int64{},
	}
	if snap == nil {
		return s
	}
	s.courses = append([]catalog.Course(nil), snap.Courses...)
	sort.Slice(s.courses, func(i, j int) bool { return s.courses[i].ID < s.courses[j].ID })
	for _, c := range s.courses {
		s.byID[c.ID] = c
	}
	seen := map[catalog.PrerequisiteEdge]struct{}{}
	for _, e := range snap.Edges {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		s.edges = append(s.edges, e)
		s.prereqs[e.To] = append(s.prereqs[e.To], e.From)
	}
	for id := range s.prereqs {
		ids := s.prereqs[id]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return s
}

func (s *SnapshotStore) ListCourses(ctx context.Context) ([]catalog.Course, error) {
	return append([]catalog.Course(nil), s.courses...), nil
}

// GetCourse fills in the fields the catalogue does not carry: no knowledge points and the
// label doubling as description.
func (s *SnapshotStore) GetCourse(ctx context.Context, id int64) (*catalog.CourseDetail, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, ErrCourseNotFound
	}
	return &catalog.CourseDetail{
		Course:          c,
		Prerequisites:   append([]int64{}, s.prereqs[id]...),
		KnowledgePoints: []string{},
		Description:     c.Label,
	}, nil
}

func (s *SnapshotStore) HasCourse(ctx context.Context, id int64) (bool, error) {
	_, ok := s.byID[id]
	return ok, nil
}

func (s *SnapshotStore) DirectPrerequisites(ctx context.Context, id int64) ([]int64, error) {
	return append([]int64{}, s.prereqs[id]...), nil
}

func (s *SnapshotStore) Search(ctx context.Context, keyword string, mode SearchMode) ([]catalog.Course, error) {
	out := []catalog.Course{}
	for _, c := range s.courses {
		if matches(c.Label, keyword, mode) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *SnapshotStore) Stats(ctx context.Context) (catalog.Stats, error) {
	return catalog.Stats{TotalCourses: len(s.courses), TotalRelationships: len(s.edges)}, nil
}

func (s *SnapshotStore) Edges(ctx context.Context) ([]catalog.PrerequisiteEdge, error) {
	return append([]catalog.PrerequisiteEdge(nil), s.edges...), nil
}
