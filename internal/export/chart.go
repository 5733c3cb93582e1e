package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/bearingsim/internal/analysis"
	"github.com/san-kum/bearingsim/internal/dynamo"
)

// Chart size and resolution.
const (
	WidthInches  = 8.0
	HeightInches = 5.0
	DPI          = 150
)

var units = map[string]string{
	"displacement":   "m",
	"velocity":       "m/s",
	"friction":       "N",
	"energy_loss":    "J",
	"temperature":    "°C",
	"stress":         "Pa",
	"magnetic_field": "T",
	"control_force":  "N",
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.Y.Tick.Label.Font.Size = vg.Points(10)
	p.Add(plotter.NewGrid())
}

// LineChart builds a single-series line plot.
func LineChart(title, xlabel, ylabel string, xs, ys []float64) (*plot.Plot, error) {
	if len(xs) != len(ys) || len(xs) == 0 {
		return nil, fmt.Errorf("chart %q: need matching non-empty series, got %d and %d points", title, len(xs), len(ys))
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	stylePlot(p)

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("chart %q: %w", title, err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	return p, nil
}

// SavePNG renders p to filename, creating parent directories.
func SavePNG(p *plot.Plot, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(WidthInches)*vg.Inch, vg.Length(HeightInches)*vg.Inch),
		vgimg.UseDPI(DPI),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

// ChartRun writes one time-series PNG per field into dir and returns the
// paths written.
func ChartRun(samples []dynamo.Sample, fields []string, dir, prefix string) ([]string, error) {
	ts, err := analysis.Series(samples, "time")
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(fields))
	for _, name := range fields {
		ys, err := analysis.Series(samples, name)
		if err != nil {
			return paths, err
		}
		p, err := LineChart(fmt.Sprintf("%s %s", prefix, name), "time (s)",
			fmt.Sprintf("%s (%s)", name, units[name]), ts, ys)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", prefix, name))
		if err := SavePNG(p, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// SpectrumChart plots the displacement amplitude spectrum of a run.
func SpectrumChart(samples []dynamo.Sample, path string) error {
	x, err := analysis.Series(samples, "displacement")
	if err != nil {
		return err
	}
	freqs, amps := analysis.Spectrum(x, dynamo.Dt)
	p, err := LineChart("Displacement spectrum", "frequency (Hz)", "amplitude (m)", freqs, amps)
	if err != nil {
		return err
	}
	return SavePNG(p, path)
}
