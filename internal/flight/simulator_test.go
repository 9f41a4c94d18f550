package flight

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/balsimlab/balsim/internal/dynamo"
	"github.com/balsimlab/balsim/internal/integrators"
	"github.com/balsimlab/balsim/internal/physics"
)

func vacuumSim() *Simulator {
	return New(physics.NewProjectile(0, physics.DefaultGravity, 0), integrators.NewRK45())
}

func TestFly_VacuumRangeMatchesClosedForm(t *testing.T) {
	sim := vacuumSim()
	launch := Launch{Speed: 100, Angle: math.Pi / 4}

	result, err := sim.Fly(context.Background(), launch, DefaultConfig())
	if err != nil {
		t.Fatalf("fly failed: %v", err)
	}

	if result.Status != Landed {
		t.Fatalf("expected landed, got %s", result.Status)
	}

	analytic := physics.Range(100, math.Pi/4, physics.DefaultGravity)
	if math.Abs(result.Range()-analytic) > 0.5 {
		t.Errorf("range %.3f deviates from closed form %.3f", result.Range(), analytic)
	}

	analyticTime := physics.VacuumFlightTime(100, math.Pi/4, physics.DefaultGravity)
	if math.Abs(result.FlightTime()-analyticTime) > 0.01 {
		t.Errorf("flight time %.4f deviates from closed form %.4f", result.FlightTime(), analyticTime)
	}
}

func TestFly_VacuumTrajectoryIsParabolic(t *testing.T) {
	sim := vacuumSim()
	launch := Launch{Speed: 50, Angle: 0.9}

	result, err := sim.Fly(context.Background(), launch, DefaultConfig())
	if err != nil {
		t.Fatalf("fly failed: %v", err)
	}

	for i := 0; i < len(result.States); i += 500 {
		x := result.States[i][physics.PosX]
		y := result.States[i][physics.PosY]
		want := physics.VacuumHeight(x, 50, 0.9, physics.DefaultGravity)
		if math.Abs(y-want) > 1e-3 {
			t.Fatalf("sample %d: y=%.6f, parabola predicts %.6f", i, y, want)
		}
	}
}

func TestFly_LastSampleAboveGround(t *testing.T) {
	sim := New(physics.NewProjectile(0.002, physics.DefaultGravity, -2), integrators.NewRK45())
	launch := Launch{Speed: 80, Angle: 0.7}

	result, err := sim.Fly(context.Background(), launch, DefaultConfig())
	if err != nil {
		t.Fatalf("fly failed: %v", err)
	}

	if result.Status != Landed {
		t.Fatalf("expected landed, got %s", result.Status)
	}

	last := result.States[len(result.States)-1]
	if last[physics.PosY] < 0 {
		t.Errorf("last retained sample is below ground: y=%f", last[physics.PosY])
	}
}

func TestFly_TimesStrictlyIncreasing(t *testing.T) {
	sim := vacuumSim()
	result, err := sim.Fly(context.Background(), Launch{Speed: 30, Angle: 0.5}, DefaultConfig())
	if err != nil {
		t.Fatalf("fly failed: %v", err)
	}

	if len(result.Times) < 2 {
		t.Fatalf("expected multiple samples, got %d", len(result.Times))
	}
	if result.Times[0] != 0 {
		t.Errorf("first sample not at t=0: %f", result.Times[0])
	}
	for i := 1; i < len(result.Times); i++ {
		if result.Times[i] <= result.Times[i-1] {
			t.Fatalf("times not increasing at %d: %f then %f", i, result.Times[i-1], result.Times[i])
		}
	}
}

func TestFly_DragShortensRange(t *testing.T) {
	launch := Launch{Speed: 100, Angle: math.Pi / 4}

	vac, err := vacuumSim().Fly(context.Background(), launch, DefaultConfig())
	if err != nil {
		t.Fatalf("vacuum fly failed: %v", err)
	}

	draggy := New(physics.NewProjectile(0.002, physics.DefaultGravity, 0), integrators.NewRK45())
	res, err := draggy.Fly(context.Background(), launch, DefaultConfig())
	if err != nil {
		t.Fatalf("drag fly failed: %v", err)
	}

	if res.Range() >= vac.Range() {
		t.Errorf("drag range %.2f not shorter than vacuum range %.2f", res.Range(), vac.Range())
	}
}

func TestFly_MetricsPopulated(t *testing.T) {
	sim := vacuumSim()
	sim.AddMetric(&maxAltitude{})

	result, err := sim.Fly(context.Background(), Launch{Speed: 40, Angle: 1.0}, DefaultConfig())
	if err != nil {
		t.Fatalf("fly failed: %v", err)
	}

	apex, ok := result.Metrics["max_altitude"]
	if !ok {
		t.Fatal("metric missing from result")
	}

	sin := math.Sin(1.0)
	want := 40 * 40 * sin * sin / (2 * physics.DefaultGravity)
	if math.Abs(apex-want) > 0.1 {
		t.Errorf("apex %.3f deviates from closed form %.3f", apex, want)
	}
}

type maxAltitude struct {
	maxY float64
}

func (m *maxAltitude) Name() string { return "max_altitude" }
func (m *maxAltitude) Observe(x dynamo.State, t float64) {
	m.maxY = math.Max(m.maxY, x[physics.PosY])
}
func (m *maxAltitude) Value() float64 { return m.maxY }
func (m *maxAltitude) Reset()         { m.maxY = 0 }

// climber rises forever so the flight can only end via the time limit.
type climber struct{}

func (c *climber) StateDim() int { return 4 }
func (c *climber) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{1, 0, 1, 0}
}

func TestFly_TimeLimitFails(t *testing.T) {
	sim := New(&climber{}, integrators.NewRK4())

	cfg := DefaultConfig()
	cfg.Dt = 0.01
	cfg.MaxFlightTime = 0.05

	result, err := sim.Fly(context.Background(), Launch{Speed: 1, Angle: 1}, cfg)
	if err != nil {
		t.Fatalf("fly returned hard error: %v", err)
	}

	if result.Status != Failed {
		t.Errorf("expected failed, got %s", result.Status)
	}
	if !errors.Is(result.Err, dynamo.ErrFlightTooLong) {
		t.Errorf("expected ErrFlightTooLong, got %v", result.Err)
	}
}

// breaker flies cleanly until breakAt, then returns NaN derivatives.
type breaker struct {
	breakAt float64
}

func (b *breaker) StateDim() int { return 4 }
func (b *breaker) Derive(x dynamo.State, t float64) dynamo.State {
	if t >= b.breakAt {
		nan := math.NaN()
		return dynamo.State{nan, nan, nan, nan}
	}
	return dynamo.State{x[physics.VelX], 0, x[physics.VelY], 0}
}

func TestFly_SolverFailureKeepsPartialTrajectory(t *testing.T) {
	sim := New(&breaker{breakAt: 0.5}, integrators.NewRK45())

	result, err := sim.Fly(context.Background(), Launch{Speed: 10, Angle: math.Pi / 4}, DefaultConfig())
	if err != nil {
		t.Fatalf("solver failure must not be a hard error, got: %v", err)
	}

	if result.Status != Failed {
		t.Fatalf("expected failed, got %s", result.Status)
	}
	if result.Err == nil {
		t.Fatal("expected result.Err to record the failure")
	}

	var stepErr *dynamo.StepError
	if !errors.As(result.Err, &stepErr) {
		t.Errorf("expected StepError, got %T", result.Err)
	}
	if !errors.Is(result.Err, dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState cause, got %v", result.Err)
	}

	if len(result.States) < 100 {
		t.Errorf("expected the pre-failure samples to survive, got %d", len(result.States))
	}
	for _, s := range result.States {
		if !s.IsValid() {
			t.Fatal("retained sample contains NaN")
		}
	}
}

func TestFly_RejectsBadConfig(t *testing.T) {
	sim := vacuumSim()

	cfg := DefaultConfig()
	cfg.Dt = 0
	if _, err := sim.Fly(context.Background(), Launch{Speed: 10, Angle: 0.5}, cfg); err == nil {
		t.Error("expected error for dt=0")
	}

	cfg = DefaultConfig()
	cfg.Tolerance = -1
	if _, err := sim.Fly(context.Background(), Launch{Speed: 10, Angle: 0.5}, cfg); err == nil {
		t.Error("expected error for negative tolerance")
	}

	if _, err := sim.Fly(context.Background(), Launch{Speed: -5, Angle: 0.5}, DefaultConfig()); err == nil {
		t.Error("expected error for negative speed")
	}
}

func TestFly_RejectsBadModelParams(t *testing.T) {
	sim := New(physics.NewProjectile(-0.1, physics.DefaultGravity, 0), integrators.NewRK45())

	_, err := sim.Fly(context.Background(), Launch{Speed: 10, Angle: 0.5}, DefaultConfig())
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestFly_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := vacuumSim()
	result, err := sim.Fly(ctx, Launch{Speed: 100, Angle: math.Pi / 4}, DefaultConfig())
	if err == nil {
		t.Fatal("expected context error")
	}
	if result == nil || len(result.States) == 0 {
		t.Error("expected the initial sample even when cancelled")
	}
}

func TestVolley_IdenticalRuns(t *testing.T) {
	volley := NewVolley(vacuumSim, 4)

	results, err := volley.Run(context.Background(), Launch{Speed: 60, Angle: 0.8}, DefaultConfig())
	if err != nil {
		t.Fatalf("volley failed: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Status != Landed {
			t.Errorf("run %d: expected landed, got %s", i, r.Status)
		}
		if r.Range() != results[0].Range() {
			t.Errorf("run %d: range %.6f differs from run 0 range %.6f", i, r.Range(), results[0].Range())
		}
	}
}
