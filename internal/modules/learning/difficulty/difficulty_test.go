package difficulty

import (
	"math"
	"testing"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
)

func testEstimator() *Estimator {
	return New(catalog.NewProfileIndex([]catalog.CourseProfile{
		{CourseID: 1, Label: "高等数学", Domains: []string{"数学基础", "微积分"}, IRT: &catalog.IRTParams{BaseDifficulty: 0.8, Discrimination: 1}},
		{CourseID: 17, Label: "深度学习", Domains: []string{"人工智能", "神经网络"}, IRT: &catalog.IRTParams{BaseDifficulty: 2.2, Discrimination: 1.3}},
		{CourseID: 12, Label: "操作系统", Domains: []string{"计算机系统"}},
		{CourseID: 30, Label: "无领域", IRT: &catalog.IRTParams{BaseDifficulty: 1, Discrimination: 1}},
	}))
}

func TestComputeDefaults(t *testing.T) {
	e := testEstimator()
	v := catalog.KnowledgeVector{"计算机系统": 0.9}
	for _, label := range []string{"不存在", "操作系统", "无领域"} {
		if got := e.Compute(label, v); got != Default {
			t.Fatalf("%s: got=%+v want=%+v", label, got, Default)
		}
	}
	if got := e.ComputeByID(404, v); got != (Assessment{Score: 0.5, Label: "medium"}) {
		t.Fatalf("unknown id: got=%+v", got)
	}
}

func TestComputeNeutralReadiness(t *testing.T) {
	e := testEstimator()
	// No overlapping domains: readiness 0.5, personalized = base.
	got := e.Compute("高等数学", catalog.KnowledgeVector{"编程基础": 0.9})
	want := 1 / (1 + math.Exp(-0.4))
	if math.Abs(got.Score-want) > 1e-12 || got.Label != LabelMedium {
		t.Fatalf("got=%+v want score=%v medium", got, want)
	}
}

func TestComputePersonalised(t *testing.T) {
	e := testEstimator()
	// readiness = (0.9+0.7)/2 = 0.8, personalized = 0.8 - 0.6 = 0.2
	got := e.Compute("高等数学", catalog.KnowledgeVector{"数学基础": 0.9, "微积分": 0.7, "其它": 0})
	want := 1 / (1 + math.Exp(-0.1))
	if math.Abs(got.Score-want) > 1e-12 {
		t.Fatalf("score: got=%v want=%v", got.Score, want)
	}
	byID := e.ComputeByID(1, catalog.KnowledgeVector{"数学基础": 0.9, "微积分": 0.7})
	if byID != got {
		t.Fatalf("ComputeByID differs: got=%+v want=%+v", byID, got)
	}

	hard := e.Compute("深度学习", catalog.KnowledgeVector{"人工智能": 0.1})
	if hard.Label != LabelVeryHard {
		t.Fatalf("weak learner on 深度学习: got=%+v", hard)
	}
	eased := e.Compute("深度学习", catalog.KnowledgeVector{"人工智能": 1, "神经网络": 1})
	if eased.Score >= hard.Score {
		t.Fatalf("higher readiness must lower difficulty: got=%v vs %v", eased.Score, hard.Score)
	}
}

func TestReadinessClampsInput(t *testing.T) {
	if got := Readiness([]string{"a", "b"}, catalog.KnowledgeVector{"a": 5, "b": math.NaN()}); got != 1 {
		t.Fatalf("readiness: got=%v want=1", got)
	}
	if got := Readiness([]string{"a"}, nil); got != NeutralReadiness {
		t.Fatalf("readiness with empty vector: got=%v", got)
	}
}

func TestLabelFor(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0, LabelEasy},
		{0.2999, LabelEasy},
		{0.3, LabelMedium},
		{0.5999, LabelMedium},
		{0.6, LabelHard},
		{0.7999, LabelHard},
		{0.8, LabelVeryHard},
		{1, LabelVeryHard},
	}
	for _, tc := range cases {
		if got := LabelFor(tc.score); got != tc.want {
			t.Fatalf("LabelFor(%v): got=%s want=%s", tc.score, got, tc.want)
		}
	}
}
