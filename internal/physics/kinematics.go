package physics

import "math"

// Range returns the horizontal distance a drag-free projectile travels
// before returning to launch height: v^2 sin(2θ) / g.
func Range(speed, angle, gravity float64) float64 {
	return speed * speed * math.Sin(2*angle) / gravity
}

// VacuumHeight returns the drag-free height at downrange distance x for
// the given launch: y = x tanθ − g x² / (2 v² cos²θ).
func VacuumHeight(x, speed, angle, gravity float64) float64 {
	cos := math.Cos(angle)
	return x*math.Tan(angle) - gravity*x*x/(2*speed*speed*cos*cos)
}

// VacuumFlightTime returns the drag-free time to return to launch
// height: 2 v sinθ / g.
func VacuumFlightTime(speed, angle, gravity float64) float64 {
	return 2 * speed * math.Sin(angle) / gravity
}

// Curve is a sampled (input, range) relation.
type Curve struct {
	X []float64
	Y []float64
}

// RangeVsSpeed samples range over [vMin, vMax] at the optimal launch
// angle π/4.
func RangeVsSpeed(vMin, vMax float64, n int, gravity float64) Curve {
	return sampleCurve(vMin, vMax, n, func(v float64) float64 {
		return Range(v, math.Pi/4, gravity)
	})
}

// RangeVsAngle samples range over [thetaMin, thetaMax] radians at fixed
// launch speed.
func RangeVsAngle(speed, thetaMin, thetaMax float64, n int, gravity float64) Curve {
	return sampleCurve(thetaMin, thetaMax, n, func(theta float64) float64 {
		return Range(speed, theta, gravity)
	})
}

func sampleCurve(lo, hi float64, n int, f func(float64) float64) Curve {
	if n < 2 {
		n = 2
	}
	c := Curve{
		X: make([]float64, n),
		Y: make([]float64, n),
	}
	step := (hi - lo) / float64(n-1)
	for i := 0; i < n; i++ {
		x := lo + float64(i)*step
		c.X[i] = x
		c.Y[i] = f(x)
	}
	return c
}
