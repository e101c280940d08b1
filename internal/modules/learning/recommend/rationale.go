package recommend

import (
	"fmt"
	"strings"
)

const (
	PrereqMet     = "met"
	PrereqMissing = "missing"

	ReadinessStrong   = "strong"
	ReadinessAdequate = "adequate"
	ReadinessWeak     = "weak"

	ChallengeModerate  = "moderate"
	ChallengeEasy      = "easy"
	ChallengeDemanding = "demanding"
)

// Rationale is the bucket combination a recommendation was explained with.
type Rationale struct {
	Prerequisites string `json:"prerequisites"`
	Readiness     string `json:"readiness"`
	Challenge     string `json:"challenge"`
	Missing       int    `json:"missing,omitempty"`
}

func Explain(met bool, missing int, readiness, difficultyScore float64) Rationale {
	r := Rationale{Prerequisites: PrereqMet}
	if !met {
		r.Prerequisites = PrereqMissing
		r.Missing = missing
	}
	switch {
	case readiness > 0.7:
		r.Readiness = ReadinessStrong
	case readiness > 0.4:
		r.Readiness = ReadinessAdequate
	default:
		r.Readiness = ReadinessWeak
	}
	switch {
	case difficultyScore >= 0.4 && difficultyScore <= 0.7:
		r.Challenge = ChallengeModerate
	case difficultyScore < 0.4:
		r.Challenge = ChallengeEasy
	default:
		r.Challenge = ChallengeDemanding
	}
	return r
}

var (
	readinessText = map[string]string{
		ReadinessStrong:   "知识储备充分",
		ReadinessAdequate: "知识储备基本满足",
		ReadinessWeak:     "建议先加强基础",
	}
	challengeText = map[string]string{
		ChallengeModerate:  "难度适中",
		ChallengeEasy:      "较为简单",
		ChallengeDemanding: "具有挑战性",
	}
)

// Text renders the rationale as the user-facing reason string.
func (r Rationale) Text() string {
	parts := make([]string, 0, 3)
	if r.Prerequisites == PrereqMet {
		parts = append(parts, "满足先修要求")
	} else {
		parts = append(parts, fmt.Sprintf("需要完成%d门先修课程", r.Missing))
	}
	parts = append(parts, readinessText[r.Readiness], challengeText[r.Challenge])
	return strings.Join(parts, "，")
}
