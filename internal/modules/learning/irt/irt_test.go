package irt

import (
	"math"
	"testing"
)

func TestSigmoid(t *testing.T) {
	if got := Sigmoid(0); got != 0.5 {
		t.Fatalf("Sigmoid(0): got=%v want=0.5", got)
	}
	if got := Sigmoid(1.25); math.Abs(got-0.7773) > 1e-4 {
		t.Fatalf("Sigmoid(1.25): got=%v want~0.7773", got)
	}
	for _, x := range []float64{-1000, -30, 30, 1000} {
		got := Sigmoid(x)
		if math.IsNaN(got) || got < 0 || got > 1 {
			t.Fatalf("Sigmoid(%v) out of range: %v", x, got)
		}
	}
	if a, b := Sigmoid(-2), 1-Sigmoid(2); math.Abs(a-b) > 1e-12 {
		t.Fatalf("Sigmoid not symmetric: got=%v want=%v", a, b)
	}
}

func TestScoreToAbility(t *testing.T) {
	cases := []struct {
		score float64
		want  float64
	}{
		{60, 0},
		{85, 1.25},
		{40, -1},
		{100, 2},
		{200, 3},
		{-100, -3},
		{math.NaN(), -3},
	}
	for _, tc := range cases {
		if got := ScoreToAbility(tc.score); got != tc.want {
			t.Fatalf("ScoreToAbility(%v): got=%v want=%v", tc.score, got, tc.want)
		}
	}
}

func TestMean(t *testing.T) {
	if _, ok := Mean(nil); ok {
		t.Fatalf("Mean(nil) should report empty")
	}
	if got, _ := Mean([]float64{1, 2, 3}); got != 2 {
		t.Fatalf("Mean: got=%v want=2", got)
	}
}
