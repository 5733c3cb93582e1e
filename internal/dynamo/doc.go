// Package dynamo provides core simulation primitives for the bearing rig.
//
// The package defines the fundamental interfaces and types shared by the
// numeric core and the drivers around it:
//
//   - [State]: vector representing integrator state (displacement, velocity)
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper interface
//   - [Controller]: feedback controller interface
//   - [Sample]: one tick of observable rig telemetry
//   - [Metric] and [Observer]: per-tick consumers of samples
//
// # Thread Safety
//
// Nothing in this package or in the engines built on it is safe for
// concurrent use. Drivers must confine ticking to a single goroutine.
package dynamo
