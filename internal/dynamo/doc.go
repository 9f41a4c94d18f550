// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper interface
//   - [AdaptiveIntegrator]: stepper with error-controlled step sizing
//
// # Example
//
//	dyn := physics.NewProjectile(0.002, 9.81, 0)
//	integ := integrators.NewRK45()
//	next, dtNext, err := integ.StepAdaptive(dyn, x, t, dt, 1e-6)
//
// # Thread Safety
//
// State vectors and systems are NOT safe for concurrent mutation. For
// parallel runs, give each goroutine its own system and state (see
// flight.Volley).
package dynamo
