// Package rig closes the loop between the rotor engine and a controller.
//
// One Tick advances the engine, feeds the new displacement and velocity to the
// controller, and holds the controller's output as the force for the next
// tick. Rig is not safe for concurrent use; drivers own it.
package rig

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/san-kum/bearingsim/internal/bearing"
	"github.com/san-kum/bearingsim/internal/dynamo"
	"github.com/san-kum/bearingsim/internal/logging"
	"github.com/san-kum/bearingsim/internal/physics"
)

// Resetter is implemented by controllers with internal state.
type Resetter interface {
	Reset()
}

type Rig struct {
	engine     *physics.Engine
	controller dynamo.Controller
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	log        logr.Logger
}

func New(model *bearing.Model, controller dynamo.Controller, log logr.Logger) *Rig {
	return &Rig{
		engine:     physics.NewEngine(model),
		controller: controller,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		log:        log,
	}
}

func (r *Rig) AddMetric(m dynamo.Metric)     { r.metrics = append(r.metrics, m) }
func (r *Rig) AddObserver(o dynamo.Observer) { r.observers = append(r.observers, o) }

func (r *Rig) Engine() *physics.Engine           { return r.engine }
func (r *Rig) Model() *bearing.Model             { return r.engine.Model() }
func (r *Rig) Controller() dynamo.Controller     { return r.controller }
func (r *Rig) SetController(c dynamo.Controller) { r.controller = c }

// Tick advances the loop once and returns the resulting sample. The sample's
// ControlForce is the force that will act during the next tick.
func (r *Rig) Tick() dynamo.Sample {
	e := r.engine
	e.Step()

	if r.controller != nil {
		u := r.controller.Compute(dynamo.State{e.RotorDisplacement(), e.RotorVelocity()}, e.Time())
		force := 0.0
		if len(u) > 0 {
			force = u[0]
		}
		e.ApplyControlForce(force)
	}

	s := e.Snapshot()
	for _, m := range r.metrics {
		m.Observe(s)
	}
	for _, o := range r.observers {
		o.OnStep(s)
	}
	return s
}

// Run performs ticks iterations from the current state. On cancellation it
// returns the partial result together with an error wrapping both
// dynamo.ErrContextCanceled and the context's error.
func (r *Rig) Run(ctx context.Context, ticks int) (*dynamo.Result, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("%w: ticks must be positive, got %d", dynamo.ErrParameterBounds, ticks)
	}

	result := &dynamo.Result{
		Samples: make([]dynamo.Sample, 0, ticks),
		Metrics: make(map[string]float64),
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	r.log.V(logging.DEBUG).Info("run starting", "bearing", r.Model().Type().String(), "ticks", ticks)

	var runErr error
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			runErr = fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}
		if runErr != nil {
			break
		}

		s := r.Tick()
		if !s.IsValid() {
			runErr = &dynamo.SimulationError{Step: i, Time: s.Time, Sample: s, Wrapped: dynamo.ErrInvalidState}
			break
		}
		result.Samples = append(result.Samples, s)
		result.StepsTaken++

		if r.log.V(logging.TRACE).Enabled() && (i+1)%100 == 0 {
			r.log.V(logging.TRACE).Info("tick", "t", s.Time, "x", s.Displacement,
				"temp", s.Temperature, "loss", s.EnergyLoss, "force", s.ControlForce)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if runErr != nil {
		r.log.Info("run stopped early", "steps", result.StepsTaken, "reason", runErr.Error())
		return result, runErr
	}
	r.log.V(logging.DEBUG).Info("run finished", "steps", result.StepsTaken,
		"energyLoss", result.Final().EnergyLoss, "temperature", result.Final().Temperature)
	return result, nil
}

// ResetPhysics returns the engine to rest. The controller keeps its
// estimator and integrator state.
func (r *Rig) ResetPhysics() {
	r.engine.Reset()
}

// ResetAll also resets the controller when it has state.
func (r *Rig) ResetAll() {
	r.engine.Reset()
	if c, ok := r.controller.(Resetter); ok {
		c.Reset()
	}
}
