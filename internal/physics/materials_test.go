package physics

import "testing"

func TestLookupMaterial(t *testing.T) {
	tests := []struct {
		name    string
		modulus float64
		cond    float64
		density float64
		known   bool
	}{
		{"ceramic", 380, 30, 3200, true},
		{"CERAMIC", 380, 30, 3200, true},
		{"Steel", 200, 50, 7850, true},
		{"unobtainium", 300, 40, 5000, false},
		{"", 300, 40, 5000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := LookupMaterial(tt.name)
			if ok != tt.known {
				t.Errorf("known = %v, want %v", ok, tt.known)
			}
			if m.YoungsModulus != tt.modulus || m.ThermalConductivity != tt.cond || m.Density != tt.density {
				t.Errorf("got %+v", m)
			}
			if YoungsModulus(tt.name) != tt.modulus || ThermalConductivity(tt.name) != tt.cond || Density(tt.name) != tt.density {
				t.Error("shortcut accessors disagree with lookup")
			}
		})
	}
}
