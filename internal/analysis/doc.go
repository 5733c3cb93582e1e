// Package analysis post-processes recorded rig telemetry.
//
//   - [Series]: extract one named channel from a run
//   - [Summarize]: mean, standard deviation, RMS and extrema of a channel
//   - [Spectrum] and [DominantFrequency]: single-sided amplitude spectrum
//   - [NewPhasePortrait]: displacement against velocity, rendered as text
//
// A rotor that settles shows a spectrum dominated by the DC bin; a rotor
// ringing near resonance shows a peak close to the modal frequency:
//
//	x, _ := analysis.Series(samples, "displacement")
//	f, amp := analysis.DominantFrequency(x, dynamo.Dt)
package analysis
