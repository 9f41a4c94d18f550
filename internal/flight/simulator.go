package flight

import (
	"context"
	"fmt"

	"github.com/balsimlab/balsim/internal/dynamo"
	"github.com/balsimlab/balsim/internal/physics"
)

// Status is the terminal condition of a flight.
type Status int

const (
	Running Status = iota
	Landed
	Failed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Landed:
		return "landed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Launch describes the initial condition: speed in m/s, angle in radians
// above horizontal. The projectile starts at the origin.
type Launch struct {
	Speed float64
	Angle float64
}

type Config struct {
	// Dt is the checkpoint interval: a state is recorded every Dt and
	// the solver never steps past a checkpoint.
	Dt            float64
	Tolerance     float64
	MinDt         float64
	MaxFlightTime float64
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.001,
		Tolerance:     1e-6,
		MinDt:         1e-9,
		MaxFlightTime: 600.0,
	}
}

func (c Config) validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	if c.MaxFlightTime <= 0 {
		return fmt.Errorf("max flight time must be positive, got %f", c.MaxFlightTime)
	}
	return nil
}

// Result holds the retained trajectory. The last state always has y >= 0:
// the step that would take the projectile below ground is discarded, not
// interpolated to y=0.
type Result struct {
	Times  []float64
	States []dynamo.State
	Status Status
	Steps  int

	// Err records why a flight ended Failed. The collected samples are
	// still valid; solver failure is early termination, not a hard error.
	Err error

	Metrics map[string]float64
}

// Positions returns the (x, y) series of the trajectory.
func (r *Result) Positions() (xs, ys []float64) {
	xs = make([]float64, len(r.States))
	ys = make([]float64, len(r.States))
	for i, s := range r.States {
		xs[i] = s[physics.PosX]
		ys[i] = s[physics.PosY]
	}
	return xs, ys
}

// Range returns the horizontal distance of the last retained sample.
func (r *Result) Range() float64 {
	if len(r.States) == 0 {
		return 0
	}
	return r.States[len(r.States)-1][physics.PosX]
}

// FlightTime returns the time of the last retained sample.
func (r *Result) FlightTime() float64 {
	if len(r.Times) == 0 {
		return 0
	}
	return r.Times[len(r.Times)-1]
}

type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New(dyn dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

type validator interface {
	Validate() error
}

// Fly integrates the flight from launch until the projectile lands
// (y < 0 after a step) or the solver fails. Both outcomes return the
// samples collected so far; only an invalid configuration or context
// cancellation produces a non-nil error.
func (s *Simulator) Fly(ctx context.Context, launch Launch, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if launch.Speed < 0 {
		return nil, fmt.Errorf("launch speed must be non-negative, got %f", launch.Speed)
	}
	if v, ok := s.dyn.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	capHint := int(cfg.MaxFlightTime/cfg.Dt) + 1
	if capHint > 1<<20 {
		capHint = 1 << 20
	}
	result := &Result{
		Times:   make([]float64, 0, capHint),
		States:  make([]dynamo.State, 0, capHint),
		Status:  Running,
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := physics.LaunchState(launch.Speed, launch.Angle)
	t := 0.0
	s.record(result, x, t)

	for result.Status == Running {
		select {
		case <-ctx.Done():
			s.finishMetrics(result)
			return result, ctx.Err()
		default:
		}

		next, err := s.advance(x, t, cfg)
		if err != nil {
			result.Err = &dynamo.StepError{Step: result.Steps, Time: t, Wrapped: err}
			result.Status = Failed
			break
		}

		if next[physics.PosY] < 0 {
			// Crossing step discarded: last retained sample is the
			// final state at or above ground.
			result.Status = Landed
			break
		}

		x = next
		t += cfg.Dt
		result.Steps++
		s.record(result, x, t)

		if t >= cfg.MaxFlightTime {
			result.Err = dynamo.ErrFlightTooLong
			result.Status = Failed
			break
		}
	}

	s.finishMetrics(result)
	return result, nil
}

func (s *Simulator) record(result *Result, x dynamo.State, t float64) {
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
}

func (s *Simulator) finishMetrics(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// advance moves the state from t to t+cfg.Dt. Adaptive integrators
// substep internally with error control, never stepping past the
// checkpoint; fixed-step integrators take one step of cfg.Dt.
func (s *Simulator) advance(x dynamo.State, t float64, cfg Config) (dynamo.State, error) {
	adaptive, ok := s.integrator.(dynamo.AdaptiveIntegrator)
	if !ok {
		next := s.integrator.Step(s.dyn, x, t, cfg.Dt)
		if !next.IsValid() {
			return nil, dynamo.ErrInvalidState
		}
		return next, nil
	}

	cur := x
	elapsed := 0.0
	h := cfg.Dt
	for elapsed < cfg.Dt-1e-12 {
		if h > cfg.Dt-elapsed {
			h = cfg.Dt - elapsed
		}
		if h < cfg.MinDt {
			return nil, dynamo.ErrStepTooSmall
		}

		next, hNext, err := adaptive.StepAdaptive(s.dyn, cur, t+elapsed, h, cfg.Tolerance)
		if err != nil {
			return nil, err
		}
		if !next.IsValid() {
			return nil, dynamo.ErrInvalidState
		}

		cur = next
		elapsed += h
		if hNext > cfg.Dt {
			hNext = cfg.Dt
		}
		h = hNext
	}
	return cur, nil
}
