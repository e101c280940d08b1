// Package irt holds the small numeric kernel shared by the knowledge and difficulty engines:
// the logistic squash and the raw-score to ability mapping.
package irt

import "math"

const (
	// ScoreCenter and ScoreScale map a 0-100 score onto the ability scale.
	ScoreCenter = 60.0
	ScoreScale  = 20.0

	MinAbility = -3.0
	MaxAbility = 3.0
)

// Sigmoid is the logistic function, computed without overflow for large |x|.
func Sigmoid(x float64) float64 {
	if x >= 0 {
		z := math.Exp(-x)
		return 1.0 / (1.0 + z)
	}
	z := math.Exp(x)
	return z / (1.0 + z)
}

// ClampRange bounds x to [lo, hi]. NaN maps to lo.
func ClampRange(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ScoreToAbility is clamp((score-60)/20, -3, 3).
func ScoreToAbility(score float64) float64 {
	return ClampRange((score-ScoreCenter)/ScoreScale, MinAbility, MaxAbility)
}

// Mean returns the arithmetic mean of xs and false when xs is empty.
func Mean(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs)), true
}
