package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/smartpath-backend/internal/data/graph"
	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/difficulty"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/knowledge"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/pathfind"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/planner"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/recommend"
	"github.com/yungbote/smartpath-backend/internal/observability"
	"github.com/yungbote/smartpath-backend/internal/platform/apierr"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
)

const (
	CodeCourseNotFound        = "course_not_found"
	CodeCyclicPrerequisites   = "cyclic_prerequisites"
	CodeKnowledgeStateMissing = "knowledge_state_required"

	// creditsPerSemester is the load assumed when estimating semesters.
	creditsPerSemester = 20.0
)

type LearningConfig struct {
	MaxDepth          int
	DetailConcurrency int
	Jitter            float64
	Thresholds        knowledge.Thresholds
}

type PathCourse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type PathDetail struct {
	Path    []int64      `json:"path"`
	Length  int          `json:"length"`
	Courses []PathCourse `json:"courses"`
}

type PrerequisitePaths struct {
	CourseID    int64        `json:"course_id"`
	CourseName  string       `json:"course_name"`
	Paths       [][]int64    `json:"path"`
	PathDetails []PathDetail `json:"path_details"`
}

type LearningPath struct {
	TargetCourseID      int64                  `json:"target_course_id"`
	TargetCourseName    string                 `json:"target_course_name"`
	RecommendedSequence []int64                `json:"recommended_sequence"`
	CourseDetails       []catalog.CourseDetail `json:"course_details"`
	TotalCredits        float64                `json:"total_credits"`
	EstimatedSemesters  int                    `json:"estimated_semesters"`
}

type RecommendInput struct {
	Vector     catalog.KnowledgeVector
	Completed  []int64
	MaxResults int
	// Seed makes the jitter reproducible; nil draws a fresh seed.
	Seed *int64
}

type LearningService interface {
	ListCourses(ctx context.Context) ([]catalog.Course, error)
	GetCourse(ctx context.Context, id int64) (*catalog.CourseDetail, error)
	SearchCourses(ctx context.Context, keyword, mode string) ([]catalog.Course, error)
	Stats(ctx context.Context) (catalog.Stats, error)

	FindPrerequisitePaths(ctx context.Context, courseID int64, maxDepth int) (*PrerequisitePaths, error)
	PlanLearningPath(ctx context.Context, targetID int64, completed []int64) (*LearningPath, error)

	EstimateKnowledge(scores map[string]float64) catalog.KnowledgeVector
	AnalyzeKnowledge(v catalog.KnowledgeVector) knowledge.Analysis
	Domains() []string

	ComputeDifficulty(label string, v catalog.KnowledgeVector) difficulty.Assessment
	ComputeDifficultyForCourse(ctx context.Context, id int64, v catalog.KnowledgeVector) (difficulty.Assessment, error)

	Recommend(ctx context.Context, in RecommendInput) ([]recommend.Recommendation, error)
}

type learningService struct {
	log        *logger.Logger
	store      graph.Store
	finder     *pathfind.Finder
	planner    *planner.Planner
	knowledge  *knowledge.Estimator
	difficulty *difficulty.Estimator
	scorer     *recommend.Scorer
	cfg        LearningConfig
}

func NewLearningService(baseLog *logger.Logger, store graph.Store, profiles *catalog.ProfileIndex, cfg LearningConfig) LearningService {
	if baseLog == nil {
		baseLog = logger.NewNop()
	}
	serviceLog := baseLog.With("service", "LearningService")
	if cfg.DetailConcurrency <= 0 {
		cfg.DetailConcurrency = 8
	}
	diff := difficulty.New(profiles)
	return &learningService{
		log:        serviceLog,
		store:      store,
		finder:     pathfind.New(store),
		planner:    planner.New(store, cfg.MaxDepth),
		knowledge:  knowledge.New(profiles, cfg.Thresholds, serviceLog),
		difficulty: diff,
		scorer:     recommend.New(diff, cfg.Jitter),
		cfg:        cfg,
	}
}

func (s *learningService) ListCourses(ctx context.Context) ([]catalog.Course, error) {
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	return courses, nil
}

func (s *learningService) GetCourse(ctx context.Context, id int64) (*catalog.CourseDetail, error) {
	c, err := s.store.GetCourse(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (s *learningService) SearchCourses(ctx context.Context, keyword, mode string) ([]catalog.Course, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apierr.InvalidArgument(fmt.Errorf("keyword is required"))
	}
	m, err := graph.ParseSearchMode(mode)
	if err != nil {
		return nil, apierr.InvalidArgument(err)
	}
	courses, err := s.store.Search(ctx, keyword, m)
	if err != nil {
		return nil, mapErr(err)
	}
	return courses, nil
}

func (s *learningService) Stats(ctx context.Context) (catalog.Stats, error) {
	st, err := s.store.Stats(ctx)
	if err != nil {
		return catalog.Stats{}, mapErr(err)
	}
	return st, nil
}

func (s *learningService) FindPrerequisitePaths(ctx context.Context, courseID int64, maxDepth int) (*PrerequisitePaths, error) {
	if maxDepth < 0 {
		return nil, mapErr(fmt.Errorf("%w: got %d", pathfind.ErrInvalidDepth, maxDepth))
	}
	target, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, mapErr(err)
	}
	paths, err := s.finder.FindPaths(ctx, courseID, maxDepth)
	if err != nil {
		return nil, mapErr(err)
	}

	var ids []int64
	for _, p := range paths {
		ids = append(ids, p...)
	}
	details, err := s.fetchDetails(ctx, ids)
	if err != nil {
		return nil, mapErr(err)
	}

	out := &PrerequisitePaths{
		CourseID:    courseID,
		CourseName:  target.Label,
		Paths:       make([][]int64, 0, len(paths)),
		PathDetails: make([]PathDetail, 0, len(paths)),
	}
	for _, p := range paths {
		out.Paths = append(out.Paths, []int64(p))
		d := PathDetail{Path: []int64(p), Length: p.Edges(), Courses: make([]PathCourse, 0, len(p))}
		for _, id := range p {
			if c, ok := details[id]; ok {
				d.Courses = append(d.Courses, PathCourse{ID: c.ID, Name: c.Label})
			}
		}
		out.PathDetails = append(out.PathDetails, d)
	}
	return out, nil
}

func (s *learningService) PlanLearningPath(ctx context.Context, targetID int64, completed []int64) (*LearningPath, error) {
	target, err := s.store.GetCourse(ctx, targetID)
	if err != nil {
		return nil, mapErr(err)
	}
	seq, err := s.planner.Plan(ctx, targetID, completed)
	if err != nil {
		return nil, mapErr(err)
	}
	details, err := s.fetchDetails(ctx, seq)
	if err != nil {
		return nil, mapErr(err)
	}

	out := &LearningPath{
		TargetCourseID:      targetID,
		TargetCourseName:    target.Label,
		RecommendedSequence: seq,
		CourseDetails:       make([]catalog.CourseDetail, 0, len(seq)),
	}
	for _, id := range seq {
		c, ok := details[id]
		if !ok {
			continue
		}
		out.CourseDetails = append(out.CourseDetails, *c)
		out.TotalCredits += c.Credits
	}
	out.EstimatedSemesters = int(out.TotalCredits / creditsPerSemester)
	if out.EstimatedSemesters < 1 {
		out.EstimatedSemesters = 1
	}
	return out, nil
}

func (s *learningService) EstimateKnowledge(scores map[string]float64) catalog.KnowledgeVector {
	return s.knowledge.Estimate(scores)
}

func (s *learningService) AnalyzeKnowledge(v catalog.KnowledgeVector) knowledge.Analysis {
	return s.knowledge.Analyze(v)
}

func (s *learningService) Domains() []string {
	return s.knowledge.Domains()
}

func (s *learningService) ComputeDifficulty(label string, v catalog.KnowledgeVector) difficulty.Assessment {
	return s.difficulty.Compute(label, v)
}

func (s *learningService) ComputeDifficultyForCourse(ctx context.Context, id int64, v catalog.KnowledgeVector) (difficulty.Assessment, error) {
	ok, err := s.store.HasCourse(ctx, id)
	if err != nil {
		return difficulty.Assessment{}, mapErr(err)
	}
	if !ok {
		return difficulty.Assessment{}, mapErr(graph.ErrCourseNotFound)
	}
	return s.difficulty.ComputeByID(id, v), nil
}

func (s *learningService) Recommend(ctx context.Context, in RecommendInput) ([]recommend.Recommendation, error) {
	if len(in.Vector) == 0 {
		return nil, apierr.New(http.StatusBadRequest, CodeKnowledgeStateMissing, fmt.Errorf("knowledge state required for recommendations"))
	}
	if in.MaxResults <= 0 {
		return nil, mapErr(fmt.Errorf("%w: got %d", recommend.ErrInvalidMaxResults, in.MaxResults))
	}

	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	done := catalog.IDSet(in.Completed)
	candidates := make([]recommend.Candidate, len(courses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.DetailConcurrency)
	for i, c := range courses {
		candidates[i].Course = c
		if _, skip := done[c.ID]; skip {
			continue
		}
		g.Go(func() error {
			prereqs, err := s.store.DirectPrerequisites(gctx, c.ID)
			if err != nil {
				return err
			}
			candidates[i].Prerequisites = prereqs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, mapErr(err)
	}

	seed := time.Now().UnixNano()
	if in.Seed != nil {
		seed = *in.Seed
	}
	recs, err := s.scorer.ScoreAndRank(candidates, in.Completed, in.Vector, in.MaxResults, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, mapErr(err)
	}
	observability.Recommendations.Observe(float64(len(recs)))
	return recs, nil
}

// fetchDetails loads course details for the distinct ids with bounded concurrency. Ids the
// store does not know are left out of the result.
func (s *learningService) fetchDetails(ctx context.Context, ids []int64) (map[int64]*catalog.CourseDetail, error) {
	unique := catalog.SortedIDs(catalog.IDSet(ids))
	found := make([]*catalog.CourseDetail, len(unique))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.DetailConcurrency)
	for i, id := range unique {
		g.Go(func() error {
			c, err := s.store.GetCourse(gctx, id)
			if errors.Is(err, graph.ErrCourseNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			found[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int64]*catalog.CourseDetail, len(unique))
	for _, c := range found {
		if c != nil {
			out[c.ID] = c
		}
	}
	return out, nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	switch {
	case errors.As(err, &ae):
		return err
	case errors.Is(err, graph.ErrCourseNotFound):
		return apierr.NotFound(CodeCourseNotFound, err)
	case errors.Is(err, pathfind.ErrInvalidDepth), errors.Is(err, recommend.ErrInvalidMaxResults):
		return apierr.InvalidArgument(err)
	case errors.Is(err, planner.ErrCyclicPrerequisites):
		return apierr.New(http.StatusInternalServerError, CodeCyclicPrerequisites, err)
	case errors.Is(err, context.DeadlineExceeded):
		return apierr.Unavailable(err)
	default:
		return err
	}
}
