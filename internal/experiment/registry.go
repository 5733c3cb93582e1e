package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/bearingsim/internal/control"
	"github.com/san-kum/bearingsim/internal/dynamo"
	"github.com/san-kum/bearingsim/internal/metrics"
)

type Registry struct {
	controllers map[string]func(map[string]float64) dynamo.Controller
}

func NewRegistry() *Registry {
	r := &Registry{
		controllers: make(map[string]func(map[string]float64) dynamo.Controller),
	}

	r.controllers["none"] = func(params map[string]float64) dynamo.Controller {
		return control.NewNone()
	}
	r.controllers["pid"] = func(params map[string]float64) dynamo.Controller {
		kp, ok := params["kp"]
		if !ok {
			kp = control.DefaultKp
		}
		ki, ok := params["ki"]
		if !ok {
			ki = control.DefaultKi
		}
		kd, ok := params["kd"]
		if !ok {
			kd = control.DefaultKd
		}
		return control.NewControllerWithGains(kp, ki, kd)
	}
	r.controllers["manual"] = func(params map[string]float64) dynamo.Controller {
		return control.NewManual(params["force"])
	}

	return r
}

func (r *Registry) GetController(name string, params map[string]float64) (dynamo.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) ListControllers() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh metric set for one run.
func (r *Registry) DefaultMetrics() []dynamo.Metric {
	return metrics.Defaults()
}
