package dynamo

import (
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		min, max float64
		want     float64
	}{
		{"inside", 0.5, 0, 1, 0.5},
		{"below", -3, -1, 1, -1},
		{"above", 3, -1, 1, 1},
		{"NaN takes min", math.NaN(), -1000, 1000, -1000},
		{"+Inf takes min", math.Inf(1), -1000, 1000, -1000},
		{"-Inf takes min", math.Inf(-1), 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.min, tt.max); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestSample_IsValid(t *testing.T) {
	if !(Sample{Temperature: 20}).IsValid() {
		t.Error("rest sample should be valid")
	}
	if (Sample{Stress: math.NaN()}).IsValid() {
		t.Error("NaN stress should be invalid")
	}
}

func TestResult_Final(t *testing.T) {
	var r *Result
	if got := r.Final(); got != (Sample{}) {
		t.Errorf("nil result final = %+v", got)
	}
	r = &Result{Samples: []Sample{{Time: 0.01}, {Time: 0.02}}}
	if got := r.Final().Time; got != 0.02 {
		t.Errorf("final time = %v, want 0.02", got)
	}
}
