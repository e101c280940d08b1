package services

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/yungbote/smartpath-backend/internal/data/graph"
	"github.com/yungbote/smartpath-backend/internal/data/snapshot"
	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/knowledge"
	"github.com/yungbote/smartpath-backend/internal/platform/apierr"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
)

func newTestLearningService(t *testing.T) LearningService {
	t.Helper()
	snap, err := snapshot.Default()
	if err != nil {
		t.Fatalf("snapshot.Default: %v", err)
	}
	store := graph.NewSnapshotStore(snap)
	return NewLearningService(logger.NewNop(), store, catalog.NewProfileIndex(snap.Profiles), LearningConfig{
		MaxDepth:          5,
		DetailConcurrency: 4,
		Jitter:            0.03,
		Thresholds:        knowledge.Thresholds{Strength: 0.7, Weakness: 0.4},
	})
}

func TestFindPrerequisitePaths(t *testing.T) {
	svc := newTestLearningService(t)
	got, err := svc.FindPrerequisitePaths(context.Background(), 3, 5)
	if err != nil {
		t.Fatalf("FindPrerequisitePaths: %v", err)
	}
	if got.CourseName != "概率论与数理统计" {
		t.Fatalf("course name: got=%q", got.CourseName)
	}
	want := [][]int64{{1, 3}, {2, 3}}
	if !reflect.DeepEqual(got.Paths, want) {
		t.Fatalf("paths: got=%v want=%v", got.Paths, want)
	}
	if len(got.PathDetails) != 2 || got.PathDetails[0].Length != 1 {
		t.Fatalf("path details: got=%+v", got.PathDetails)
	}
	first := got.PathDetails[0].Courses
	if len(first) != 2 || first[0] != (PathCourse{ID: 1, Name: "高等数学"}) {
		t.Fatalf("path detail courses: got=%+v", first)
	}
}

func TestFindPrerequisitePathsErrors(t *testing.T) {
	svc := newTestLearningService(t)
	ctx := context.Background()

	_, err := svc.FindPrerequisitePaths(ctx, 999, 5)
	if !apierr.IsNotFound(err) {
		t.Fatalf("unknown course: expected not found, got=%v", err)
	}
	_, err = svc.FindPrerequisitePaths(ctx, 3, -1)
	if !apierr.IsInvalidArgument(err) {
		t.Fatalf("negative depth: expected invalid argument, got=%v", err)
	}

	got, err := svc.FindPrerequisitePaths(ctx, 1, 5)
	if err != nil {
		t.Fatalf("root course: %v", err)
	}
	if !reflect.DeepEqual(got.Paths, [][]int64{{1}}) || got.PathDetails[0].Length != 0 {
		t.Fatalf("root course paths: got=%+v", got)
	}
}

func TestPlanLearningPath(t *testing.T) {
	svc := newTestLearningService(t)
	got, err := svc.PlanLearningPath(context.Background(), 3, nil)
	if err != nil {
		t.Fatalf("PlanLearningPath: %v", err)
	}
	if !reflect.DeepEqual(got.RecommendedSequence, []int64{1, 2, 3}) {
		t.Fatalf("sequence: got=%v", got.RecommendedSequence)
	}
	if got.TotalCredits != 11 || got.EstimatedSemesters != 1 {
		t.Fatalf("credits/semesters: got=%v/%d", got.TotalCredits, got.EstimatedSemesters)
	}
	if len(got.CourseDetails) != 3 || got.CourseDetails[2].Label != "概率论与数理统计" {
		t.Fatalf("details: got=%+v", got.CourseDetails)
	}

	deep, err := svc.PlanLearningPath(context.Background(), 17, []int64{1, 2})
	if err != nil {
		t.Fatalf("PlanLearningPath(17): %v", err)
	}
	pos := map[int64]int{}
	for i, id := range deep.RecommendedSequence {
		pos[id] = i
	}
	if _, ok := pos[1]; ok {
		t.Fatalf("completed course planned: %v", deep.RecommendedSequence)
	}
	if pos[16] > pos[17] || pos[10] > pos[16] || pos[9] > pos[10] {
		t.Fatalf("prerequisite order violated: %v", deep.RecommendedSequence)
	}
	if deep.EstimatedSemesters < 1 {
		t.Fatalf("semesters: got=%d", deep.EstimatedSemesters)
	}

	if _, err := svc.PlanLearningPath(context.Background(), 404, nil); !apierr.IsNotFound(err) {
		t.Fatalf("unknown target: expected not found, got=%v", err)
	}
}

func TestSearchCourses(t *testing.T) {
	svc := newTestLearningService(t)
	ctx := context.Background()

	fuzzy, err := svc.SearchCourses(ctx, "数学", "")
	if err != nil {
		t.Fatalf("fuzzy: %v", err)
	}
	var ids []int64
	for _, c := range fuzzy {
		ids = append(ids, c.ID)
	}
	if !reflect.DeepEqual(ids, []int64{1, 4, 20}) {
		t.Fatalf("fuzzy ids: got=%v", ids)
	}

	exact, err := svc.SearchCourses(ctx, "线性代数", "exact")
	if err != nil || len(exact) != 1 || exact[0].ID != 2 {
		t.Fatalf("exact: got=%v err=%v", exact, err)
	}

	if _, err := svc.SearchCourses(ctx, "  ", ""); !apierr.IsInvalidArgument(err) {
		t.Fatalf("empty keyword: got=%v", err)
	}
	if _, err := svc.SearchCourses(ctx, "数学", "regex"); !apierr.IsInvalidArgument(err) {
		t.Fatalf("bad mode: got=%v", err)
	}
}

func TestStatsAndDomains(t *testing.T) {
	svc := newTestLearningService(t)
	st, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalCourses != 22 || st.TotalRelationships != 28 {
		t.Fatalf("stats: got=%+v", st)
	}
	domains := svc.Domains()
	if len(domains) == 0 {
		t.Fatalf("expected domains")
	}
}

func TestEstimateAndAnalyzeKnowledge(t *testing.T) {
	svc := newTestLearningService(t)
	v := svc.EstimateKnowledge(map[string]float64{"高等数学": 90, "线性代数": 85, "不存在的课": 70})
	if _, ok := v["数学基础"]; !ok {
		t.Fatalf("expected 数学基础 in vector: %v", v)
	}
	a := svc.AnalyzeKnowledge(v)
	if len(a.Strengths) == 0 || a.OverallLevel <= 0.7 {
		t.Fatalf("analysis: got=%+v", a)
	}
}

func TestComputeDifficultyForCourse(t *testing.T) {
	svc := newTestLearningService(t)
	v := catalog.KnowledgeVector{"数学基础": 0.9, "微积分": 0.7}
	byID, err := svc.ComputeDifficultyForCourse(context.Background(), 1, v)
	if err != nil {
		t.Fatalf("ComputeDifficultyForCourse: %v", err)
	}
	if byLabel := svc.ComputeDifficulty("高等数学", v); byLabel != byID {
		t.Fatalf("label and id disagree: %+v vs %+v", byLabel, byID)
	}
	if _, err := svc.ComputeDifficultyForCourse(context.Background(), 404, v); !apierr.IsNotFound(err) {
		t.Fatalf("unknown course: got=%v", err)
	}
}

func TestRecommend(t *testing.T) {
	svc := newTestLearningService(t)
	ctx := context.Background()
	seed := int64(2024)
	in := RecommendInput{
		Vector:     catalog.KnowledgeVector{"数学基础": 0.8, "编程基础": 0.6},
		Completed:  []int64{1, 2, 5},
		MaxResults: 5,
		Seed:       &seed,
	}
	a, err := svc.Recommend(ctx, in)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(a) != 5 {
		t.Fatalf("expected 5 recommendations, got=%d", len(a))
	}
	for _, r := range a {
		if r.CourseID == 1 || r.CourseID == 2 || r.CourseID == 5 {
			t.Fatalf("completed course recommended: %+v", r)
		}
	}
	b, err := svc.Recommend(ctx, in)
	if err != nil {
		t.Fatalf("Recommend (repeat): %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("seeded recommend not reproducible")
	}
}

func TestRecommendRejectsBadInput(t *testing.T) {
	svc := newTestLearningService(t)
	ctx := context.Background()

	_, err := svc.Recommend(ctx, RecommendInput{MaxResults: 5})
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusBadRequest || ae.Code != CodeKnowledgeStateMissing {
		t.Fatalf("empty vector: got=%v", err)
	}
	_, err = svc.Recommend(ctx, RecommendInput{Vector: catalog.KnowledgeVector{"数学基础": 0.5}, MaxResults: 0})
	if !apierr.IsInvalidArgument(err) {
		t.Fatalf("zero max: got=%v", err)
	}
}
