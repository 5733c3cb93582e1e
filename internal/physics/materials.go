package physics

import "strings"

// Material holds the constants the rig needs for a bearing material.
type Material struct {
	Name                string
	YoungsModulus       float64 // GPa
	ThermalConductivity float64 // W/(m*K)
	Density             float64 // kg/m^3
}

var materials = map[string]Material{
	"ceramic": {Name: "ceramic", YoungsModulus: 380.0, ThermalConductivity: 30.0, Density: 3200},
	"steel":   {Name: "steel", YoungsModulus: 200.0, ThermalConductivity: 50.0, Density: 7850},
}

// defaultMaterial sits mid-range between the known materials.
var defaultMaterial = Material{Name: "default", YoungsModulus: 300.0, ThermalConductivity: 40.0, Density: 5000}

// LookupMaterial returns the constants for name, case-insensitively. Unknown
// names get mid-range defaults and ok is false.
func LookupMaterial(name string) (m Material, ok bool) {
	m, ok = materials[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return defaultMaterial, false
	}
	return m, true
}

// MaterialNames lists the known materials.
func MaterialNames() []string {
	return []string{"ceramic", "steel"}
}

func YoungsModulus(material string) float64 {
	m, _ := LookupMaterial(material)
	return m.YoungsModulus
}

func ThermalConductivity(material string) float64 {
	m, _ := LookupMaterial(material)
	return m.ThermalConductivity
}

func Density(material string) float64 {
	m, _ := LookupMaterial(material)
	return m.Density
}
