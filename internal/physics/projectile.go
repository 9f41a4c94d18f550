package physics

import (
	"fmt"
	"math"

	"github.com/balsimlab/balsim/internal/dynamo"
)

// State vector layout for projectile flight.
const (
	PosX = 0
	VelX = 1
	PosY = 2
	VelY = 3
)

const DefaultGravity = 9.81

// Projectile models 2D point-mass flight under quadratic air drag and a
// constant horizontal wind. Drag is the mass-normalized coefficient k:
// the drag force magnitude is k*|v_rel|^2, directed against the velocity
// relative to the air.
type Projectile struct {
	Drag    float64 // k, per unit mass [1/m]
	Gravity float64 // g [m/s^2]
	Wind    float64 // horizontal wind speed [m/s], positive downrange
}

func NewProjectile(drag, gravity, wind float64) *Projectile {
	return &Projectile{
		Drag:    drag,
		Gravity: gravity,
		Wind:    wind,
	}
}

func (p *Projectile) StateDim() int { return 4 }

// Validate rejects parameter values outside physical bounds.
func (p *Projectile) Validate() error {
	if p.Gravity <= 0 {
		return fmt.Errorf("%w: gravity must be positive, got %f", dynamo.ErrParameterBounds, p.Gravity)
	}
	if p.Drag < 0 {
		return fmt.Errorf("%w: drag must be non-negative, got %f", dynamo.ErrParameterBounds, p.Drag)
	}
	return nil
}

func (p *Projectile) Derive(x dynamo.State, t float64) dynamo.State {
	vx, vy := x[VelX], x[VelY]

	// Drag opposes the relative-velocity unit vector with magnitude
	// k*s^2; dividing out the unit vector leaves one factor of s per
	// component, so s=0 makes the drag terms vanish without a division.
	relX := vx - p.Wind
	s := math.Hypot(relX, vy)

	ax := -p.Drag * relX * s
	ay := -p.Gravity - p.Drag*vy*s

	return dynamo.State{vx, ax, vy, ay}
}

// LaunchState builds the t=0 state for a launch at the origin.
func LaunchState(speed, angle float64) dynamo.State {
	sin, cos := math.Sincos(angle)
	return dynamo.State{0, speed * cos, 0, speed * sin}
}

// Energy returns specific mechanical energy (per unit mass). Conserved
// only for Drag=0; used to bound integration error in the vacuum case.
func (p *Projectile) Energy(x dynamo.State) float64 {
	vx, vy := x[VelX], x[VelY]
	ke := 0.5 * (vx*vx + vy*vy)
	pe := p.Gravity * x[PosY]
	return ke + pe
}

func (p *Projectile) GetParams() map[string]float64 {
	return map[string]float64{
		"drag":    p.Drag,
		"gravity": p.Gravity,
		"wind":    p.Wind,
	}
}

func (p *Projectile) SetParam(name string, value float64) error {
	switch name {
	case "drag":
		p.Drag = value
	case "gravity":
		p.Gravity = value
	case "wind":
		p.Wind = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
