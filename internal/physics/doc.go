// Package physics provides the rotor-bearing model and its stateless helpers.
//
//   - [Rotor]: the lumped single-degree-of-freedom rotor ODE, a [dynamo.System]
//   - [Engine]: owns the simulation state and advances it one fixed tick at a time
//   - [ResonanceFrequency], [VibrationModes], [CriticalSpeed]: modal formulas
//   - [LookupMaterial]: material constants by name
//
// # Numeric policy
//
// Nothing in this package returns an error. Every intermediate that can leave
// its physical range is clamped, and NaN or Inf is replaced by the lower bound
// of the clamp (see [dynamo.Clamp]). The one exception is acceleration, where
// an invalid value becomes zero.
//
// # Example
//
//	model := bearing.NewModel()
//	eng := physics.NewEngine(model)
//	for i := 0; i < 100; i++ {
//	    eng.Step()
//	}
//	fmt.Println(eng.Temperature())
package physics
