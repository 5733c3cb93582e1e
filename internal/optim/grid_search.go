// Package optim searches rig parameters for the lowest value of a run metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-logr/logr"

	"github.com/san-kum/bearingsim/internal/dynamo"
	"github.com/san-kum/bearingsim/internal/experiment"
	"github.com/san-kum/bearingsim/internal/logging"
)

// Builder returns a ready experiment for one parameter combination.
type Builder func(params map[string]float64) (*experiment.Experiment, error)

// Point is one evaluated grid combination.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	log        logr.Logger
}

func NewGridSearch(params []string, ranges [][]float64, log logr.Logger) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: need one range per parameter", dynamo.ErrParameterBounds)
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("%w: empty range for %s", dynamo.ErrParameterBounds, params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges, log: log}, nil
}

// Size is the number of combinations Search evaluates.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every combination and returns the one with the lowest
// metricName together with all evaluated points, best first. Combinations
// that fail to build or run are kept with their error and sorted last.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (*Point, []Point, error) {
	points := make([]Point, 0, g.Size())
	if err := g.searchRecursive(ctx, 0, map[string]float64{}, build, metricName, &points); err != nil {
		return nil, points, err
	}

	sort.SliceStable(points, func(i, j int) bool {
		if (points[i].Err == nil) != (points[j].Err == nil) {
			return points[i].Err == nil
		}
		return points[i].Value < points[j].Value
	})

	if len(points) == 0 || points[0].Err != nil {
		return nil, points, fmt.Errorf("no combination produced %q", metricName)
	}
	best := points[0]
	return &best, points, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Builder,
	metricName string,
	points *[]Point,
) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
	}

	if depth == len(g.paramNames) {
		p := Point{Params: current, Value: math.Inf(1)}
		p.Value, p.Err = g.evaluate(ctx, build, current, metricName)
		if errors.Is(p.Err, dynamo.ErrContextCanceled) {
			return p.Err
		}
		g.log.V(logging.DEBUG).Info("grid point", "params", current, metricName, p.Value, "err", p.Err)
		*points = append(*points, p)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, build, metricName, points); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(ctx context.Context, build Builder, params map[string]float64, metricName string) (float64, error) {
	exp, err := build(params)
	if err != nil {
		return math.Inf(1), err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return math.Inf(1), err
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		return math.Inf(1), fmt.Errorf("metric %q not recorded", metricName)
	}
	return val, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
