// Package difficulty computes how hard a course is for one learner, given their domain mastery
// and the course's fixed IRT parameters.
package difficulty

import (
	"math"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/irt"
)

const (
	LabelEasy     = "easy"
	LabelMedium   = "medium"
	LabelHard     = "hard"
	LabelVeryHard = "very-hard"

	// NeutralReadiness is used when the learner has no mastery in any of the course's domains.
	NeutralReadiness = 0.5
)

// Default is returned for courses without IRT parameters or a domain mapping.
var Default = Assessment{Score: 0.5, Label: LabelMedium}

type Assessment struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

type Estimator struct {
	profiles *catalog.ProfileIndex
}

func New(profiles *catalog.ProfileIndex) *Estimator {
	return &Estimator{profiles: profiles}
}

// Compute looks the course up by label. Unknown labels get Default.
func (e *Estimator) Compute(label string, v catalog.KnowledgeVector) Assessment {
	p, ok := e.profiles.ByLabel(label)
	if !ok {
		return Default
	}
	return Assess(p, v)
}

func (e *Estimator) ComputeByID(id int64, v catalog.KnowledgeVector) Assessment {
	p, ok := e.profiles.ByID(id)
	if !ok {
		return Default
	}
	return Assess(p, v)
}

// Assess shifts the course's base difficulty by the learner's readiness over its domains:
// personalized = base - (readiness-0.5)*2, score = sigmoid(personalized/2).
func Assess(p catalog.CourseProfile, v catalog.KnowledgeVector) Assessment {
	if p.IRT == nil || len(p.Domains) == 0 {
		return Default
	}
	readiness := Readiness(p.Domains, v)
	personalized := p.IRT.BaseDifficulty - (readiness-NeutralReadiness)*2
	score := irt.Sigmoid(personalized / 2)
	return Assessment{Score: score, Label: LabelFor(score)}
}

// Readiness is the mean mastery over the given domains that appear in v, or 0.5 when none do.
// Mastery values are clamped to [0,1]; NaN entries are ignored.
func Readiness(domains []string, v catalog.KnowledgeVector) float64 {
	vals := make([]float64, 0, len(domains))
	for _, d := range domains {
		m, ok := v[d]
		if !ok || math.IsNaN(m) {
			continue
		}
		vals = append(vals, irt.ClampRange(m, 0, 1))
	}
	if avg, ok := irt.Mean(vals); ok {
		return avg
	}
	return NeutralReadiness
}

func LabelFor(score float64) string {
	switch {
	case score < 0.3:
		return LabelEasy
	case score < 0.6:
		return LabelMedium
	case score < 0.8:
		return LabelHard
	default:
		return LabelVeryHard
	}
}
