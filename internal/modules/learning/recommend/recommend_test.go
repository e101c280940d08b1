package recommend

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/difficulty"
)

func testScorer(jitter float64) *Scorer {
	idx := catalog.NewProfileIndex([]catalog.CourseProfile{
		{CourseID: 1, Label: "高等数学", Domains: []string{"数学基础", "微积分"}, IRT: &catalog.IRTParams{BaseDifficulty: 0.8, Discrimination: 1}},
		{CourseID: 2, Label: "线性代数", Domains: []string{"数学基础", "代数"}, IRT: &catalog.IRTParams{BaseDifficulty: 0.5, Discrimination: 1.1}},
		{CourseID: 3, Label: "概率论与数理统计", Domains: []string{"数学基础", "概率统计"}, IRT: &catalog.IRTParams{BaseDifficulty: 1.0, Discrimination: 1}},
		{CourseID: 16, Label: "机器学习", Domains: []string{"人工智能", "数据分析"}, IRT: &catalog.IRTParams{BaseDifficulty: 2.0, Discrimination: 1.2}},
	})
	return New(difficulty.New(idx), jitter)
}

func testCandidates() []Candidate {
	return []Candidate{
		{Course: catalog.Course{ID: 16, Label: "机器学习"}, Prerequisites: []int64{2, 3, 7, 10}},
		{Course: catalog.Course{ID: 3, Label: "概率论与数理统计"}, Prerequisites: []int64{1, 2}},
		{Course: catalog.Course{ID: 1, Label: "高等数学"}},
		{Course: catalog.Course{ID: 2, Label: "线性代数"}},
		{Course: catalog.Course{ID: 21, Label: "编译原理"}, Prerequisites: []int64{9, 4}},
	}
}

func TestScoreAndRankWithoutJitter(t *testing.T) {
	s := testScorer(0)
	v := catalog.KnowledgeVector{"数学基础": 0.8, "微积分": 0.75}
	got, err := s.ScoreAndRank(testCandidates(), []int64{1}, v, 10, nil)
	if err != nil {
		t.Fatalf("ScoreAndRank: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 recommendations, got=%d", len(got))
	}

	byID := map[int64]Recommendation{}
	for _, r := range got {
		if r.CourseID == 1 {
			t.Fatalf("completed course recommended")
		}
		byID[r.CourseID] = r
	}

	// Course 2: no prerequisites; readiness over {数学基础} = 0.8 -> personalized 0.5-0.6 = -0.1.
	d := 1 / (1 + math.Exp(0.05))
	want := Display(PrerequisiteTerm(0) + ReadinessTerm(1-d) + ChallengeTerm(d))
	if r := byID[2]; math.Abs(r.MatchScore-want) > 1e-12 || !r.PrerequisitesMet || r.DifficultyMatch != difficulty.LabelMedium {
		t.Fatalf("course 2: got=%+v want score=%v", r, want)
	}

	if r := byID[3]; r.PrerequisitesMet || !reflect.DeepEqual(r.MissingPrerequisites, []int64{2}) {
		t.Fatalf("course 3 prerequisites: got=%+v", r)
	}
	if r := byID[21]; r.DifficultyScore != 0.5 || r.DifficultyMatch != "medium" {
		t.Fatalf("unprofiled course should use default difficulty: got=%+v", r)
	}
	if r := byID[16]; r.Reason != "需要完成4门先修课程，建议先加强基础，具有挑战性" {
		t.Fatalf("course 16 reason: got=%q", r.Reason)
	}

	for i := 1; i < len(got); i++ {
		if got[i].MatchScore > got[i-1].MatchScore {
			t.Fatalf("not sorted descending at %d: %v > %v", i, got[i].MatchScore, got[i-1].MatchScore)
		}
	}
}

func TestScoreAndRankTruncatesAndRejectsBadLimit(t *testing.T) {
	s := testScorer(DefaultJitter)
	got, err := s.ScoreAndRank(testCandidates(), nil, nil, 2, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("ScoreAndRank: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got=%d", len(got))
	}
	for _, n := range []int{0, -3} {
		if _, err := s.ScoreAndRank(testCandidates(), nil, nil, n, nil); !errors.Is(err, ErrInvalidMaxResults) {
			t.Fatalf("maxResults=%d: expected ErrInvalidMaxResults, got=%v", n, err)
		}
	}
}

func TestScoreAndRankSeededIsReproducible(t *testing.T) {
	s := testScorer(DefaultJitter)
	v := catalog.KnowledgeVector{"数学基础": 0.6, "人工智能": 0.3}
	a, _ := s.ScoreAndRank(testCandidates(), nil, v, 5, rand.New(rand.NewSource(42)))

	shuffled := testCandidates()
	shuffled[0], shuffled[4] = shuffled[4], shuffled[0]
	b, _ := s.ScoreAndRank(shuffled, nil, v, 5, rand.New(rand.NewSource(42)))
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed should reproduce ranking:\n got=%+v\nwant=%+v", b, a)
	}

	plain, _ := s.ScoreAndRank(testCandidates(), nil, v, 5, nil)
	for i := range a {
		var base float64
		for _, p := range plain {
			if p.CourseID == a[i].CourseID {
				base = p.MatchScore
			}
		}
		// Display slopes are at most 0.7, so +-0.03 of jitter moves the score by < 0.021.
		if math.Abs(a[i].MatchScore-base) > 0.021+1e-12 {
			t.Fatalf("course %d: jitter moved score too far: %v vs %v", a[i].CourseID, a[i].MatchScore, base)
		}
	}
}

func TestScoresStayInDisplayRange(t *testing.T) {
	s := testScorer(DefaultJitter)
	rng := rand.New(rand.NewSource(7))
	for _, m := range []float64{0, 0.2, 0.5, 0.8, 1} {
		v := catalog.KnowledgeVector{"数学基础": m, "微积分": m, "代数": m, "人工智能": m}
		got, _ := s.ScoreAndRank(testCandidates(), nil, v, 10, rng)
		for _, r := range got {
			if r.MatchScore < 0.3 || r.MatchScore > 0.95 {
				t.Fatalf("score out of display range: %+v", r)
			}
		}
	}
}

func TestPrerequisiteTerm(t *testing.T) {
	cases := map[int]float64{0: 0.35, 1: 0.23, 2: 0.11, 3: 0, 10: 0}
	for missing, want := range cases {
		if got := PrerequisiteTerm(missing); math.Abs(got-want) > 1e-12 {
			t.Fatalf("PrerequisiteTerm(%d): got=%v want=%v", missing, got, want)
		}
	}
}

func TestReadinessTerm(t *testing.T) {
	cases := []struct {
		r    float64
		want float64
	}{
		{1, 0.20},
		{0.85, 0.40},
		{0.6, 0.40},
		{0.5, 0.40 * 0.8},
		{0.4, 0.40 * 0.6},
		{0.25, 0.40 * 0.3},
		{0.125, 0.40 * 0.15},
		{0, 0},
	}
	for _, tc := range cases {
		if got := ReadinessTerm(tc.r); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("ReadinessTerm(%v): got=%v want=%v", tc.r, got, tc.want)
		}
	}
}

func TestChallengeTerm(t *testing.T) {
	cases := []struct {
		d    float64
		want float64
	}{
		{0.05, 0.08},
		{0.1, 0.15},
		{0.2, 0.20},
		{0.3, 0.25},
		{0.5, 0.25},
		{0.55, 0.20},
		{0.65, 0.15},
		{0.75, 0.10},
		{0.8, 0.10},
		{0.9, 0.05},
	}
	for _, tc := range cases {
		if got := ChallengeTerm(tc.d); got != tc.want {
			t.Fatalf("ChallengeTerm(%v): got=%v want=%v", tc.d, got, tc.want)
		}
	}
}

func TestDisplay(t *testing.T) {
	if got := Display(0); got != 0.3 {
		t.Fatalf("Display(0): got=%v", got)
	}
	if got := Display(1); math.Abs(got-0.95) > 1e-12 {
		t.Fatalf("Display(1): got=%v", got)
	}
	if got := Display(0.5); got != 0.6 {
		t.Fatalf("Display(0.5): got=%v", got)
	}
}

func TestRationaleText(t *testing.T) {
	r := Explain(true, 0, 0.8, 0.5)
	if got, want := r.Text(), "满足先修要求，知识储备充分，难度适中"; got != want {
		t.Fatalf("text: got=%q want=%q", got, want)
	}
	r = Explain(false, 2, 0.5, 0.2)
	if r.Readiness != ReadinessAdequate || r.Challenge != ChallengeEasy || r.Missing != 2 {
		t.Fatalf("buckets: got=%+v", r)
	}
}
