// Package physics provides the projectile flight model and the drag-free
// reference kinematics.
//
// [Projectile] implements the [dynamo.System] interface with quadratic
// drag against the wind-relative velocity:
//
//	dx/dt  = vx
//	dvx/dt = -k (vx - w) s
//	dy/dt  = vy
//	dvy/dt = -g - k vy s      with s = |(vx - w, vy)|
//
// The closed-form functions ([Range], [VacuumHeight]) describe the k=0
// case and serve as the analytic reference for integrator accuracy.
//
// Projectile also implements [dynamo.Configurable] for runtime parameter
// adjustment and [dynamo.Hamiltonian] for energy-drift checks in vacuum.
package physics
