package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/san-kum/bearingsim/internal/dynamo"
)

const (
	metadataFile  = "metadata.json"
	telemetryFile = "telemetry.csv"
)

var telemetryHeader = []string{
	"time", "displacement", "velocity", "friction", "energy_loss",
	"temperature", "stress", "magnetic_field", "control_force",
}

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
	log     logr.Logger
}

func New(baseDir string, log logr.Logger) *Store {
	return &Store{baseDir: baseDir, log: log}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Bearing    string             `json:"bearing"`
	Controller string             `json:"controller"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Ticks      int                `json:"ticks"`
	Duration   float64            `json:"duration"`
	Params     map[string]float64 `json:"params,omitempty"`
	Gains      map[string]float64 `json:"gains,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes meta and the run's samples to a fresh run directory. ID,
// timestamp, tick count, and metrics are filled in from result.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", strings.ToLower(meta.Bearing), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("creating run dir: %w", err)
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Dt = dynamo.Dt
	meta.Ticks = result.StepsTaken
	meta.Duration = float64(result.StepsTaken) * dynamo.Dt
	meta.Metrics = result.Metrics

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTelemetry(filepath.Join(runDir, telemetryFile), result.Samples); err != nil {
		return "", err
	}

	s.log.V(1).Info("saved run", "id", runID, "samples", len(result.Samples))
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeTelemetry(path string, samples []dynamo.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating telemetry: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(telemetryHeader); err != nil {
		return err
	}
	for _, smp := range samples {
		row := []string{
			formatFloat(smp.Time),
			formatFloat(smp.Displacement),
			formatFloat(smp.Velocity),
			formatFloat(smp.Friction),
			formatFloat(smp.EnergyLoss),
			formatFloat(smp.Temperature),
			formatFloat(smp.Stress),
			formatFloat(smp.MagneticField),
			formatFloat(smp.ControlForce),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.V(1).Info("skipping run", "dir", entry.Name(), "reason", err.Error())
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownRun, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decoding metadata for %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]dynamo.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, telemetryFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownRun, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(telemetryHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading telemetry for %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []dynamo.Sample{}, nil
	}

	samples := make([]dynamo.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [9]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("telemetry row %d column %s: %w", i+1, telemetryHeader[j], err)
			}
			vals[j] = v
		}
		samples = append(samples, dynamo.Sample{
			Time:          vals[0],
			Displacement:  vals[1],
			Velocity:      vals[2],
			Friction:      vals[3],
			EnergyLoss:    vals[4],
			Temperature:   vals[5],
			Stress:        vals[6],
			MagneticField: vals[7],
			ControlForce:  vals[8],
		})
	}
	return samples, nil
}

// ExportData is the JSON document written by ExportJSON.
type ExportData struct {
	RunMetadata
	Samples []dynamo.Sample `json:"samples"`
}

// ExportJSON writes a stored run as a single JSON document to path, or to
// stdout when path is "-" or empty.
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	data := ExportData{RunMetadata: *meta, Samples: samples}
	if path == "" || path == "-" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	return writeJSON(path, data)
}
