// Package recommend ranks candidate courses for a learner by prerequisite satisfaction,
// knowledge readiness and how close the course sits to an optimal challenge level.
package recommend

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/difficulty"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/irt"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/planner"
)

const (
	PrerequisiteWeight = 0.35
	ReadinessWeight    = 0.40
	ChallengeWeight    = 0.25

	// MissingPenalty is subtracted from the prerequisite term per missing prerequisite.
	MissingPenalty = 0.12

	DefaultJitter = 0.03
)

var ErrInvalidMaxResults = errors.New("recommend: max results must be > 0")

// Candidate is a course together with its direct prerequisite ids.
type Candidate struct {
	Course        catalog.Course
	Prerequisites []int64
}

type Recommendation struct {
	CourseID             int64     `json:"course_id"`
	CourseName           string    `json:"course_name"`
	Reason               string    `json:"reason"`
	MatchScore           float64   `json:"match_score"`
	DifficultyMatch      string    `json:"difficulty_match"`
	DifficultyScore      float64   `json:"difficulty_score"`
	PrerequisitesMet     bool      `json:"prerequisites_met"`
	MissingPrerequisites []int64   `json:"missing_prerequisites"`
	Rationale            Rationale `json:"rationale"`
}

type Scorer struct {
	difficulty *difficulty.Estimator
	jitter     float64
}

// New builds a scorer. jitter is the half-width of the uniform noise added to each raw score;
// 0 disables it and negative values are treated as 0.
func New(diff *difficulty.Estimator, jitter float64) *Scorer {
	if jitter < 0 {
		jitter = 0
	}
	return &Scorer{difficulty: diff, jitter: jitter}
}

// ScoreAndRank scores every candidate not in completed and returns the best maxResults, highest
// first (ties by course id). Jitter is drawn from rng in ascending course id order so a seeded
// rng reproduces the ranking exactly; a nil rng adds no jitter.
func (s *Scorer) ScoreAndRank(candidates []Candidate, completed []int64, v catalog.KnowledgeVector, maxResults int, rng *rand.Rand) ([]Recommendation, error) {
	if maxResults <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxResults, maxResults)
	}
	done := catalog.IDSet(completed)

	ordered := append([]Candidate(nil), candidates...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Course.ID < ordered[j].Course.ID })

	out := make([]Recommendation, 0, len(ordered))
	seen := map[int64]struct{}{}
	for _, c := range ordered {
		if _, ok := done[c.Course.ID]; ok {
			continue
		}
		if _, dup := seen[c.Course.ID]; dup {
			continue
		}
		seen[c.Course.ID] = struct{}{}

		met, missing := planner.PrerequisitesMet(c.Prerequisites, done)
		assessment := s.difficulty.ComputeByID(c.Course.ID, v)
		readiness := 1 - assessment.Score

		raw := PrerequisiteTerm(len(missing)) + ReadinessTerm(readiness) + ChallengeTerm(assessment.Score)
		if rng != nil && s.jitter > 0 {
			raw += (rng.Float64()*2 - 1) * s.jitter
		}
		rationale := Explain(met, len(missing), readiness, assessment.Score)

		out = append(out, Recommendation{
			CourseID:             c.Course.ID,
			CourseName:           c.Course.Label,
			Reason:               rationale.Text(),
			MatchScore:           Display(irt.ClampRange(raw, 0, 1)),
			DifficultyMatch:      assessment.Label,
			DifficultyScore:      assessment.Score,
			PrerequisitesMet:     met,
			MissingPrerequisites: missing,
			Rationale:            rationale,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchScore != out[j].MatchScore {
			return out[i].MatchScore > out[j].MatchScore
		}
		return out[i].CourseID < out[j].CourseID
	})
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

// PrerequisiteTerm is the full weight when nothing is missing, minus 0.12 per missing course.
func PrerequisiteTerm(missing int) float64 {
	if missing <= 0 {
		return PrerequisiteWeight
	}
	penalty := MissingPenalty * float64(missing)
	if penalty > PrerequisiteWeight {
		penalty = PrerequisiteWeight
	}
	return PrerequisiteWeight - penalty
}

// ReadinessTerm rewards readiness in [0.6, 0.85] fully, tapers off for trivially easy courses
// and falls away faster for courses the learner is not ready for.
func ReadinessTerm(r float64) float64 {
	switch {
	case r > 0.85:
		return ReadinessWeight * (0.5 + 0.5*(1-r)/0.15)
	case r >= 0.6:
		return ReadinessWeight
	case r >= 0.4:
		return ReadinessWeight * (0.6 + 0.4*(r-0.4)/0.2)
	case r >= 0.25:
		return ReadinessWeight * (0.3 + 0.3*(r-0.25)/0.15)
	default:
		return ReadinessWeight * (0.3 * irt.ClampRange(r, 0, 1) / 0.25)
	}
}

// ChallengeTerm peaks for difficulty in [0.3, 0.5].
func ChallengeTerm(d float64) float64 {
	switch {
	case d >= 0.3 && d <= 0.5:
		return ChallengeWeight
	case (d >= 0.2 && d < 0.3) || (d > 0.5 && d <= 0.6):
		return 0.20
	case (d >= 0.1 && d < 0.2) || (d > 0.6 && d <= 0.7):
		return 0.15
	case d < 0.1:
		return 0.08
	case d <= 0.8:
		return 0.10
	default:
		return 0.05
	}
}

// Display stretches a raw score in [0,1] onto roughly [0.3, 0.95].
func Display(v float64) float64 {
	if v >= 0.5 {
		return 0.6 + (v-0.5)*0.7
	}
	return 0.3 + v*0.6
}
