package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestStateClone(t *testing.T) {
	s := State{1.0, 2.0, 3.0}
	c := s.Clone()

	c[0] = 99.0
	if s[0] != 1.0 {
		t.Error("clone shares backing array with original")
	}
	if len(c) != len(s) {
		t.Errorf("clone length %d, want %d", len(c), len(s))
	}
}

func TestStateIsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"finite", State{1, -2, 0}, true},
		{"empty", State{}, true},
		{"nan", State{1, math.NaN()}, false},
		{"pos_inf", State{math.Inf(1)}, false},
		{"neg_inf", State{0, math.Inf(-1), 0}, false},
	}

	for _, tt := range tests {
		if got := tt.state.IsValid(); got != tt.valid {
			t.Errorf("%s: IsValid() = %v, want %v", tt.name, got, tt.valid)
		}
	}
}

func TestStateNorm(t *testing.T) {
	s := State{3, 4}
	if s.Norm() != 5 {
		t.Errorf("expected norm 5, got %f", s.Norm())
	}

	if (State{}).Norm() != 0 {
		t.Error("expected zero norm for empty state")
	}
}

func TestStateSub(t *testing.T) {
	a := State{5, 7, 9}
	b := State{1, 2, 3}

	d := a.Sub(b)
	for i, want := range []float64{4, 5, 6} {
		if d[i] != want {
			t.Errorf("component %d: got %f, want %f", i, d[i], want)
		}
	}
}

func TestStepError(t *testing.T) {
	err := &StepError{Step: 42, Time: 1.5, Wrapped: ErrInvalidState}

	if !errors.Is(err, ErrInvalidState) {
		t.Error("StepError does not unwrap to its cause")
	}

	msg := err.Error()
	if msg == "" {
		t.Error("expected non-empty error message")
	}
}
