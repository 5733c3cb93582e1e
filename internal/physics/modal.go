package physics

import "math"

// ResonanceFrequency returns the natural frequency in Hz of a mass on a
// spring. Non-positive stiffness or mass yields 0.
func ResonanceFrequency(stiffness, mass float64) float64 {
	if mass <= 0 || stiffness <= 0 {
		return 0
	}
	return math.Sqrt(stiffness/mass) / (2 * math.Pi)
}

// VibrationModes returns the first three harmonics of the fundamental.
func VibrationModes(stiffness, mass float64) [3]float64 {
	f := ResonanceFrequency(stiffness, mass)
	return [3]float64{f, 2 * f, 3 * f}
}

// CriticalSpeed converts the fundamental to cycles per minute.
func CriticalSpeed(stiffness, mass float64) float64 {
	return 60 * ResonanceFrequency(stiffness, mass)
}

// ModalReport summarises the modal behaviour of a configured rotor.
type ModalReport struct {
	Stiffness     float64    `json:"stiffness"`
	Mass          float64    `json:"mass"`
	Resonance     float64    `json:"resonance_hz"`
	Modes         [3]float64 `json:"modes_hz"`
	CriticalSpeed float64    `json:"critical_speed_rpm"`
}

func NewModalReport(stiffness, mass float64) ModalReport {
	return ModalReport{
		Stiffness:     stiffness,
		Mass:          mass,
		Resonance:     ResonanceFrequency(stiffness, mass),
		Modes:         VibrationModes(stiffness, mass),
		CriticalSpeed: CriticalSpeed(stiffness, mass),
	}
}
