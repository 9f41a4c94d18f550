package metrics

import (
	"math"
	"testing"

	"github.com/balsimlab/balsim/internal/dynamo"
)

func observeArc(m dynamo.Metric) {
	// rising then falling arc with the peak in the middle
	states := []dynamo.State{
		{0, 50, 0, 30},
		{100, 48, 40, 10},
		{200, 46, 50, 0},
		{300, 44, 40, -10},
		{400, 42, 0, -28},
	}
	for i, s := range states {
		m.Observe(s, float64(i))
	}
}

func TestRange(t *testing.T) {
	m := NewRange()
	observeArc(m)

	if m.Value() != 400 {
		t.Errorf("expected range 400, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestApex(t *testing.T) {
	m := NewApex()
	observeArc(m)

	if m.Value() != 50 {
		t.Errorf("expected apex 50, got %f", m.Value())
	}
}

func TestFlightTime(t *testing.T) {
	m := NewFlightTime()
	observeArc(m)

	if m.Value() != 4 {
		t.Errorf("expected flight time 4, got %f", m.Value())
	}
}

func TestImpactSpeed(t *testing.T) {
	m := NewImpactSpeed()
	observeArc(m)

	want := math.Hypot(42, -28)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected impact speed %f, got %f", want, m.Value())
	}
}

func TestMetricNames(t *testing.T) {
	names := map[string]dynamo.Metric{
		"range":        NewRange(),
		"apex":         NewApex(),
		"flight_time":  NewFlightTime(),
		"impact_speed": NewImpactSpeed(),
	}
	for want, m := range names {
		if m.Name() != want {
			t.Errorf("expected name %q, got %q", want, m.Name())
		}
	}
}
