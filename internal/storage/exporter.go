package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/go-logr/logr"

	"github.com/san-kum/bearingsim/internal/dynamo"
)

// DefaultExportPath is where the dashboard appends telemetry.
const DefaultExportPath = "simulation_data.csv"

// ExportHeader is written once, when the target file is empty.
var ExportHeader = []string{
	"Time", "Displacement", "Velocity", "Friction",
	"EnergyLoss", "Temperature", "Stress", "MagneticField",
}

// Exporter appends one CSV record per call. Each call opens and closes the
// file, so several sessions can share it.
type Exporter struct {
	path string
}

func NewExporter(path string) *Exporter {
	return &Exporter{path: path}
}

func (e *Exporter) Path() string { return e.path }

func fixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func (e *Exporter) Write(s dynamo.Sample) error {
	f, err := os.OpenFile(e.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening export file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat export file: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(ExportHeader); err != nil {
			return err
		}
	}
	record := []string{
		fixed(s.Time, 2),
		fixed(s.Displacement, 4),
		fixed(s.Velocity, 4),
		fixed(s.Friction, 4),
		fixed(s.EnergyLoss, 4),
		fixed(s.Temperature, 4),
		fixed(s.Stress, 4),
		fixed(s.MagneticField, 4),
	}
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing export record: %w", err)
	}
	return nil
}

// Recorder is an observer that hands every n-th sample to an Exporter.
// Write failures are logged and the first one is kept for Err.
type Recorder struct {
	exporter *Exporter
	every    int
	ticks    int
	err      error
	log      logr.Logger
}

// NewRecorder samples once every `every` ticks; values below 1 mean every tick.
func NewRecorder(exporter *Exporter, every int, log logr.Logger) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{exporter: exporter, every: every, log: log}
}

func (r *Recorder) OnStep(s dynamo.Sample) {
	r.ticks++
	if r.ticks%r.every != 0 {
		return
	}
	if err := r.exporter.Write(s); err != nil {
		r.log.Error(err, "telemetry export failed", "path", r.exporter.Path(), "time", s.Time)
		if r.err == nil {
			r.err = err
		}
	}
}

// Reset restarts the sampling interval.
func (r *Recorder) Reset() { r.ticks = 0 }

func (r *Recorder) Err() error { return r.err }

func (r *Recorder) Path() string { return r.exporter.Path() }
