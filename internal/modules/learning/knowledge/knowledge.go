// Package knowledge estimates per-domain mastery from raw course scores and classifies the
// result into strengths and weaknesses.
package knowledge

import (
	"math"
	"sort"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/irt"
	"github.com/yungbote/smartpath-backend/internal/observability"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
)

const (
	DefaultStrengthThreshold = 0.7
	DefaultWeaknessThreshold = 0.4
)

type Thresholds struct {
	Strength float64
	Weakness float64
}

type Analysis struct {
	OverallLevel float64  `json:"overall_level"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
}

type Estimator struct {
	profiles   *catalog.ProfileIndex
	thresholds Thresholds
	log        *logger.Logger
}

// New builds an estimator. Thresholds that are unset or overlapping fall back to 0.7 / 0.4.
func New(profiles *catalog.ProfileIndex, th Thresholds, log *logger.Logger) *Estimator {
	if th.Strength <= 0 || th.Weakness < 0 || th.Weakness >= th.Strength {
		th = Thresholds{Strength: DefaultStrengthThreshold, Weakness: DefaultWeaknessThreshold}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Estimator{profiles: profiles, thresholds: th, log: log.With("engine", "KnowledgeEstimator")}
}

// Estimate maps scores keyed by course label to domain mastery. Courses without a domain
// mapping and NaN scores are skipped with a warning; domains nobody contributed to are absent.
func (e *Estimator) Estimate(scores map[string]float64) catalog.KnowledgeVector {
	labels := make([]string, 0, len(scores))
	for label := range scores {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	acc := accumulator{}
	for _, label := range labels {
		p, ok := e.profiles.ByLabel(label)
		e.add(acc, label, p, ok, scores[label])
	}
	return acc.vector()
}

// EstimateByID is Estimate for scores keyed by course id.
func (e *Estimator) EstimateByID(scores map[int64]float64) catalog.KnowledgeVector {
	ids := make([]int64, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	acc := accumulator{}
	for _, id := range ids {
		p, ok := e.profiles.ByID(id)
		e.add(acc, id, p, ok, scores[id])
	}
	return acc.vector()
}

func (e *Estimator) add(acc accumulator, course any, p catalog.CourseProfile, ok bool, score float64) {
	if !ok || len(p.Domains) == 0 {
		e.log.Warn("scored course has no knowledge mapping, skipping", "course", course)
		observability.UnmappedScores.Inc()
		return
	}
	if math.IsNaN(score) {
		e.log.Warn("score is not a number, skipping", "course", course)
		return
	}
	ability := irt.ScoreToAbility(score)
	for _, d := range p.Domains {
		acc[d] = append(acc[d], ability)
	}
}

// Analyze summarises a vector. Strengths and weaknesses are ordered by descending mastery,
// ties by domain name.
func (e *Estimator) Analyze(v catalog.KnowledgeVector) Analysis {
	out := Analysis{Strengths: []string{}, Weaknesses: []string{}}
	if len(v) == 0 {
		return out
	}
	domains := v.Domains()
	sort.SliceStable(domains, func(i, j int) bool { return v[domains[i]] > v[domains[j]] })

	sum := 0.0
	for _, d := range domains {
		m := v[d]
		sum += m
		switch {
		case m >= e.thresholds.Strength:
			out.Strengths = append(out.Strengths, d)
		case m <= e.thresholds.Weakness:
			out.Weaknesses = append(out.Weaknesses, d)
		}
	}
	out.OverallLevel = sum / float64(len(domains))
	return out
}

// Domains lists every knowledge domain known to the profile tables.
func (e *Estimator) Domains() []string {
	return e.profiles.AllDomains()
}

type accumulator map[string][]float64

func (a accumulator) vector() catalog.KnowledgeVector {
	out := make(catalog.KnowledgeVector, len(a))
	for d, abilities := range a {
		if avg, ok := irt.Mean(abilities); ok {
			out[d] = irt.Sigmoid(avg)
		}
	}
	return out
}
