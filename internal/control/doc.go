// Package control provides the rotor position controllers.
//
// Controllers implement the [dynamo.Controller] interface so the rig can drive
// them uniformly:
//
//   - [Controller]: Kalman-filtered PID, the production bearing controller
//   - [Estimator]: scalar Kalman filter over displacement and velocity
//   - [PID]: PID stage with reset-based anti-windup
//   - [None]: zero force (open loop)
//   - [Manual]: constant operator-set force
//
// # Usage
//
//	ctrl := control.NewController()
//	eng.Step()
//	eng.ApplyControlForce(ctrl.Update(eng.RotorDisplacement(), eng.RotorVelocity()))
//
// Controllers implementing [dynamo.Configurable] support live tuning.
package control
