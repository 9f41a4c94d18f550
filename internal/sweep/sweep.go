// Package sweep runs a series of flights while varying one launch or
// environment parameter, producing range/apex/flight-time curves under
// drag that the closed-form kinematics cannot provide.
package sweep

import (
	"context"
	"fmt"

	"github.com/balsimlab/balsim/internal/config"
	"github.com/balsimlab/balsim/internal/experiment"
)

// Sweep describes a linear scan over one parameter.
type Sweep struct {
	Param string // drag | gravity | wind | speed | angle
	Min   float64
	Max   float64
	Steps int
}

// Point is the outcome of one flight in the sweep.
type Point struct {
	Value      float64
	Range      float64
	Apex       float64
	FlightTime float64
	Status     string
}

func applyParam(cfg *config.Config, name string, value float64) error {
	switch name {
	case "drag":
		cfg.Params.Drag = value
	case "gravity":
		cfg.Params.Gravity = value
	case "wind":
		cfg.Params.Wind = value
	case "speed":
		cfg.Launch.Speed = value
	case "angle":
		cfg.Launch.Angle = value
	default:
		return fmt.Errorf("unknown sweep param: %s", name)
	}
	return nil
}

// Run executes the sweep. Each flight uses a fresh experiment so runs
// never share mutable state.
func Run(ctx context.Context, base *config.Config, registry *experiment.Registry, sw Sweep) ([]Point, error) {
	if sw.Steps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sw.Steps)
	}

	points := make([]Point, 0, sw.Steps)
	step := (sw.Max - sw.Min) / float64(sw.Steps-1)

	for i := 0; i < sw.Steps; i++ {
		value := sw.Min + float64(i)*step

		cfg := *base
		if err := applyParam(&cfg, sw.Param, value); err != nil {
			return nil, err
		}

		exp := experiment.New(&cfg)
		if err := exp.Setup(registry); err != nil {
			return points, fmt.Errorf("sweep %s=%g: %w", sw.Param, value, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return points, fmt.Errorf("sweep %s=%g: %w", sw.Param, value, err)
		}

		points = append(points, Point{
			Value:      value,
			Range:      result.Metrics["range"],
			Apex:       result.Metrics["apex"],
			FlightTime: result.Metrics["flight_time"],
			Status:     result.Status.String(),
		})
	}

	return points, nil
}
