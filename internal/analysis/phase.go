package analysis

import (
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/bearingsim/internal/dynamo"
)

// PhasePortrait holds rotor displacement against velocity.
type PhasePortrait struct {
	Displacement []float64
	Velocity     []float64
}

func NewPhasePortrait(samples []dynamo.Sample) *PhasePortrait {
	p := &PhasePortrait{
		Displacement: make([]float64, len(samples)),
		Velocity:     make([]float64, len(samples)),
	}
	for i, s := range samples {
		p.Displacement[i] = s.Displacement
		p.Velocity[i] = s.Velocity
	}
	return p
}

func bounds(v []float64) (lo, hi, span float64) {
	lo, hi = floats.Min(v), floats.Max(v)
	span = hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	hi += span * 0.1
	return lo, hi, hi - lo
}

// ASCII renders the portrait with displacement on the horizontal axis.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Displacement) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, rangeX := bounds(p.Displacement)
	minY, maxY, rangeY := bounds(p.Velocity)

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i := range p.Displacement {
		col := int((p.Displacement[i] - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Velocity[i]-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// axes through the origin when it is visible
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
