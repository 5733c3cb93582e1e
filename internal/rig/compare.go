package rig

import (
	"context"
	"sync"

	"github.com/go-logr/logr"

	"github.com/san-kum/bearingsim/internal/bearing"
	"github.com/san-kum/bearingsim/internal/control"
)

// CompareTicks is the run length used for each bearing type.
const CompareTicks = 100

// Comparison is the outcome of one open-loop run of a bearing type.
type Comparison struct {
	Type          bearing.Type `json:"type"`
	EnergyLoss    float64      `json:"energy_loss"`
	Rigidity      float64      `json:"rigidity"`
	Friction      float64      `json:"friction"`
	MagneticField float64      `json:"magnetic_field"`
	Temperature   float64      `json:"temperature"`
}

// Compare runs every bearing type from rest for ticks ticks with no
// controller, each on its own copy of base. base itself is not modified.
// Results are in bearing.Types order.
func Compare(ctx context.Context, base *bearing.Model, ticks int, log logr.Logger) ([]Comparison, error) {
	results := make([]Comparison, len(bearing.Types))
	errs := make([]error, len(bearing.Types))

	var wg sync.WaitGroup
	for i, bt := range bearing.Types {
		wg.Add(1)
		go func(idx int, bt bearing.Type) {
			defer wg.Done()

			model := base.Clone()
			model.SetType(bt)
			r := New(model, control.NewNone(), log.WithValues("bearing", bt.String()))

			res, err := r.Run(ctx, ticks)
			if err != nil {
				errs[idx] = err
				return
			}
			final := res.Final()
			results[idx] = Comparison{
				Type:          bt,
				EnergyLoss:    final.EnergyLoss,
				Rigidity:      model.Rigidity(),
				Friction:      final.Friction,
				MagneticField: final.MagneticField,
				Temperature:   final.Temperature,
			}
		}(i, bt)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
