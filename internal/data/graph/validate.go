package graph

import (
	"context"

	"github.com/yungbote/smartpath-backend/internal/data/snapshot"
	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
)

// Validate loads the full course list and edge set from s and runs the catalogue checks on
// them: duplicate ids, dangling edges and cycles. Invalid data wraps snapshot.ErrInvalidSnapshot.
func Validate(ctx context.Context, s Store) error {
	courses, err := s.ListCourses(ctx)
	if err != nil {
		return err
	}
	edges, err := s.Edges(ctx)
	if err != nil {
		return err
	}
	return snapshot.Validate(&catalog.Snapshot{Courses: courses, Edges: edges})
}
