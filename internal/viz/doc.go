// Package viz is the interactive terminal dashboard for the bearing rig.
//
// The dashboard is a Bubble Tea program. Every frame advances the rig by a
// fixed number of ticks, draws the rotor on a Braille [Canvas], and shows
// telemetry gauges, a displacement chart and the controller gains.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	S      - Single tick while paused
//	R      - Reset physics (controller state is kept)
//	Tab    - Select gain (kp, ki, kd)
//	Up/K   - Increase selected gain
//	Down/J - Decrease selected gain
//	B      - Cycle bearing type
//	T      - Cycle colour theme
//	Q      - Quit
//
// When an export path is set, one CSV record is appended per second of
// simulated time.
package viz
