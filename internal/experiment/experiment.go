package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/balsimlab/balsim/internal/config"
	"github.com/balsimlab/balsim/internal/flight"
	"github.com/balsimlab/balsim/internal/physics"
)

// Experiment wires a config into a ready-to-fly simulator and owns the
// seeded RNG used for dataset jitter.
type Experiment struct {
	cfg        *config.Config
	proj       *physics.Projectile
	simulator  *flight.Simulator
	randSource *rand.Rand
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

func (e *Experiment) Setup(registry *Registry) error {
	integ, err := registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	e.proj = physics.NewProjectile(e.cfg.Params.Drag, e.cfg.Params.Gravity, e.cfg.Params.Wind)
	if err := e.proj.Validate(); err != nil {
		return err
	}

	e.simulator = flight.New(e.proj, integ)
	for _, m := range registry.DefaultMetrics() {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) flightConfig() flight.Config {
	fc := flight.DefaultConfig()
	if e.cfg.Dt > 0 {
		fc.Dt = e.cfg.Dt
	}
	if e.cfg.Tolerance > 0 {
		fc.Tolerance = e.cfg.Tolerance
	}
	if e.cfg.MaxFlightTime > 0 {
		fc.MaxFlightTime = e.cfg.MaxFlightTime
	}
	return fc
}

func (e *Experiment) launch() flight.Launch {
	return flight.Launch{Speed: e.cfg.Launch.Speed, Angle: e.cfg.Launch.Angle}
}

// Run flies a single trajectory.
func (e *Experiment) Run(ctx context.Context) (*flight.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Fly(ctx, e.launch(), e.flightConfig())
}

// GenerateDataset flies a trajectory and returns it downsampled to the
// configured interval with uniform position jitter applied.
func (e *Experiment) GenerateDataset(ctx context.Context) ([]flight.Sample, *flight.Result, error) {
	result, err := e.Run(ctx)
	if err != nil {
		return nil, nil, err
	}

	samples := flight.Downsample(result, e.flightConfig().Dt, e.cfg.Sampling.Interval)
	samples = flight.Perturb(samples, e.cfg.Sampling.Jitter, e.randSource)
	return samples, result, nil
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *flight.Simulator {
	return e.simulator
}

// Projectile returns the configured flight model.
func (e *Experiment) Projectile() *physics.Projectile {
	return e.proj
}
