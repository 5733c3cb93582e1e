// Package experiment turns a validated configuration into a ready rig.
package experiment

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/san-kum/bearingsim/internal/config"
	"github.com/san-kum/bearingsim/internal/dynamo"
	"github.com/san-kum/bearingsim/internal/rig"
)

type Experiment struct {
	cfg *config.Config
	rig *rig.Rig
	log logr.Logger
}

func New(cfg *config.Config, log logr.Logger) *Experiment {
	return &Experiment{cfg: cfg, log: log}
}

// Setup validates the configuration and builds the rig with the selected
// controller and the default metrics.
func (e *Experiment) Setup(reg *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctrl, err := reg.GetController(e.cfg.Controller.Name, e.cfg.ControllerParams())
	if err != nil {
		return err
	}

	e.rig = rig.New(e.cfg.BearingModel(), ctrl, e.log)
	for _, m := range reg.DefaultMetrics() {
		e.rig.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.rig == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.rig.Run(ctx, e.cfg.Run.Ticks)
}

// Rig returns the underlying rig for adding observers.
func (e *Experiment) Rig() *rig.Rig {
	return e.rig
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}
