package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/bearingsim/internal/config"
	"github.com/san-kum/bearingsim/internal/dynamo"
	"github.com/san-kum/bearingsim/internal/experiment"
)

func builder(ticks int) Builder {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := config.DefaultConfig()
		cfg.Run.Ticks = ticks
		for name, v := range params {
			if err := cfg.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(cfg, logr.Discard())
		if err := exp.Setup(experiment.NewRegistry()); err != nil {
			return nil, err
		}
		return exp, nil
	}
}

func TestNewGridSearchRejectsBadRanges(t *testing.T) {
	_, err := NewGridSearch([]string{"kp"}, nil, logr.Discard())
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)

	_, err = NewGridSearch([]string{"kp"}, [][]float64{{}}, logr.Discard())
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}

func TestSearchVisitsEveryCombination(t *testing.T) {
	g, err := NewGridSearch([]string{"kp", "kd"}, [][]float64{{500, 1000, 1500}, {10, 50}}, logr.Discard())
	require.NoError(t, err)
	assert.Equal(t, 6, g.Size())

	best, points, err := g.Search(context.Background(), builder(20), "control_effort")
	require.NoError(t, err)
	require.Len(t, points, 6)
	assert.Equal(t, points[0].Params, best.Params)
	for i := 1; i < len(points); i++ {
		assert.LessOrEqual(t, points[i-1].Value, points[i].Value)
	}
}

func TestSearchSortsFailuresLast(t *testing.T) {
	g, err := NewGridSearch([]string{"speed"}, [][]float64{{-1, 1000}}, logr.Discard())
	require.NoError(t, err)

	best, points, err := g.Search(context.Background(), builder(20), "energy_loss")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, best.Params["speed"])
	require.Len(t, points, 2)
	assert.Error(t, points[1].Err)
}

func TestSearchUnknownMetric(t *testing.T) {
	g, err := NewGridSearch([]string{"kp"}, [][]float64{{1000}}, logr.Discard())
	require.NoError(t, err)

	_, points, err := g.Search(context.Background(), builder(10), "no_such_metric")
	assert.Error(t, err)
	require.Len(t, points, 1)
	assert.Error(t, points[0].Err)
}

func TestSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, err := NewGridSearch([]string{"kp"}, [][]float64{{500, 1000}}, logr.Discard())
	require.NoError(t, err)

	_, _, err = g.Search(ctx, builder(10), "control_effort")
	assert.True(t, errors.Is(err, dynamo.ErrContextCanceled))
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))
	assert.Equal(t, []float64{4}, Linspace(4, 9, 1))
}
