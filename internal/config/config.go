package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/bearingsim/internal/bearing"
	"github.com/san-kum/bearingsim/internal/control"
	"github.com/san-kum/bearingsim/internal/dynamo"
	"github.com/san-kum/bearingsim/internal/physics"
)

const (
	DefaultTicks       = 1000
	DefaultExportEvery = 100
	DefaultController  = "pid"
)

// Controllers names the controllers a run may select.
var Controllers = []string{"none", "pid", "manual"}

type Config struct {
	Bearing    BearingConfig    `yaml:"bearing"`
	Controller ControllerConfig `yaml:"controller"`
	Run        RunConfig        `yaml:"run"`
}

type BearingConfig struct {
	Type          string  `yaml:"type"`
	Material      string  `yaml:"material,omitempty"`
	SpindleSpeed  float64 `yaml:"spindle_speed"`
	Load          float64 `yaml:"load"`
	YoungsModulus float64 `yaml:"youngs_modulus"`
}

type ControllerConfig struct {
	Name  string  `yaml:"name"`
	Kp    float64 `yaml:"kp"`
	Ki    float64 `yaml:"ki"`
	Kd    float64 `yaml:"kd"`
	Force float64 `yaml:"force,omitempty"`
}

type RunConfig struct {
	Ticks       int    `yaml:"ticks"`
	ExportEvery int    `yaml:"export_every"`
	ExportPath  string `yaml:"export_path,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Bearing: BearingConfig{
			Type:          bearing.DefaultType.String(),
			SpindleSpeed:  bearing.DefaultSpindleSpeed,
			Load:          bearing.DefaultLoad,
			YoungsModulus: bearing.DefaultYoungsModulus,
		},
		Controller: ControllerConfig{
			Name: DefaultController,
			Kp:   control.DefaultKp,
			Ki:   control.DefaultKi,
			Kd:   control.DefaultKd,
		},
		Run: RunConfig{
			Ticks:       DefaultTicks,
			ExportEvery: DefaultExportEvery,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func outOfRange(msg string) error {
	return fmt.Errorf("%w: %s", dynamo.ErrParameterBounds, msg)
}

// Validate checks user supplied values against the rig's operating ranges.
// Setters on bearing.Model clamp silently; Validate is where bad input is
// reported.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := bearing.ParseType(c.Bearing.Type); !ok {
		errs = append(errs, outOfRange(fmt.Sprintf("unknown bearing type %q", c.Bearing.Type)))
	}
	b := c.Bearing
	if !inRange(b.SpindleSpeed, bearing.MinSpindleSpeed, bearing.MaxSpindleSpeed) {
		errs = append(errs, outOfRange("speed must be 500-20000 RPM"))
	}
	if !inRange(b.Load, bearing.MinLoad, bearing.MaxLoad) {
		errs = append(errs, outOfRange("load must be 100-1000 N"))
	}
	if !(b.YoungsModulus == 0 && b.Material != "") &&
		!inRange(b.YoungsModulus, bearing.MinYoungsModulus, bearing.MaxYoungsModulus) {
		errs = append(errs, outOfRange("Young's modulus must be 100-500 GPa"))
	}

	ctl := c.Controller
	if !knownController(ctl.Name) {
		errs = append(errs, outOfRange(fmt.Sprintf("unknown controller %q (want one of %s)",
			ctl.Name, strings.Join(Controllers, ", "))))
	}
	if !inRange(ctl.Kp, 0, control.MaxKp) {
		errs = append(errs, outOfRange("kp must be 0-2000"))
	}
	if !inRange(ctl.Ki, 0, control.MaxKi) {
		errs = append(errs, outOfRange("ki must be 0-50"))
	}
	if !inRange(ctl.Kd, 0, control.MaxKd) {
		errs = append(errs, outOfRange("kd must be 0-100"))
	}
	if !inRange(ctl.Force, -physics.MaxForce, physics.MaxForce) {
		errs = append(errs, outOfRange("manual force must be within ±1000 N"))
	}

	if c.Run.Ticks <= 0 {
		errs = append(errs, outOfRange("ticks must be positive"))
	}
	if c.Run.ExportEvery < 0 {
		errs = append(errs, outOfRange("export interval must not be negative"))
	}

	return errors.Join(errs...)
}

// inRange is false for NaN.
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func knownController(name string) bool {
	for _, c := range Controllers {
		if c == name {
			return true
		}
	}
	return false
}

// BearingModel builds a configuration entity from the bearing section. A
// named material fills in Young's modulus when none is given.
func (c *Config) BearingModel() *bearing.Model {
	m := bearing.NewModel()
	t, _ := bearing.ParseType(c.Bearing.Type)
	m.SetType(t)
	m.SetSpindleSpeed(c.Bearing.SpindleSpeed)
	m.SetLoad(c.Bearing.Load)

	modulus := c.Bearing.YoungsModulus
	if modulus == 0 && c.Bearing.Material != "" {
		modulus = physics.YoungsModulus(c.Bearing.Material)
	}
	m.SetYoungsModulus(modulus)
	return m
}

// ControllerParams returns the gains in the form accepted by SetParam.
func (c *Config) ControllerParams() map[string]float64 {
	return map[string]float64{
		"kp":    c.Controller.Kp,
		"ki":    c.Controller.Ki,
		"kd":    c.Controller.Kd,
		"force": c.Controller.Force,
	}
}

// Duration is the simulated time covered by the run, in seconds.
func (c *Config) Duration() float64 {
	return float64(c.Run.Ticks) * dynamo.Dt
}

// TunableParams lists the names accepted by SetParam.
var TunableParams = []string{"speed", "load", "modulus", "kp", "ki", "kd", "force"}

// SetParam sets a numeric field by its short name. Values are not checked
// here; call Validate afterwards.
func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "speed":
		c.Bearing.SpindleSpeed = value
	case "load":
		c.Bearing.Load = value
	case "modulus":
		c.Bearing.YoungsModulus = value
	case "kp":
		c.Controller.Kp = value
	case "ki":
		c.Controller.Ki = value
	case "kd":
		c.Controller.Kd = value
	case "force":
		c.Controller.Force = value
	default:
		return fmt.Errorf("unknown parameter %q (want one of %s)", name, strings.Join(TunableParams, ", "))
	}
	return nil
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	copied := *c
	return &copied
}
