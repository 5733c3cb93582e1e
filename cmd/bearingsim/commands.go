package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/bearingsim/internal/analysis"
	"github.com/san-kum/bearingsim/internal/bearing"
	"github.com/san-kum/bearingsim/internal/config"
	"github.com/san-kum/bearingsim/internal/dynamo"
	"github.com/san-kum/bearingsim/internal/experiment"
	"github.com/san-kum/bearingsim/internal/export"
	"github.com/san-kum/bearingsim/internal/metrics"
	"github.com/san-kum/bearingsim/internal/optim"
	"github.com/san-kum/bearingsim/internal/physics"
	"github.com/san-kum/bearingsim/internal/rig"
	"github.com/san-kum/bearingsim/internal/storage"
	"github.com/san-kum/bearingsim/internal/viz"
)

// buildConfig layers defaults, a preset, a config file and explicitly set
// flags, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		bt, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset %q: want bearing/name", preset)
		}
		p := config.GetPreset(strings.ToLower(bt), name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", preset,
				strings.Join(config.ListPresets(strings.ToLower(bt)), ", "))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("bearing") {
		cfg.Bearing.Type = bearingType
	}
	if flags.Changed("material") {
		cfg.Bearing.Material = material
		if !flags.Changed("modulus") {
			cfg.Bearing.YoungsModulus = 0
		}
	}
	if flags.Changed("speed") {
		cfg.Bearing.SpindleSpeed = speed
	}
	if flags.Changed("load") {
		cfg.Bearing.Load = load
	}
	if flags.Changed("modulus") {
		cfg.Bearing.YoungsModulus = modulus
	}
	if flags.Changed("controller") {
		cfg.Controller.Name = controller
	}
	if flags.Changed("kp") {
		cfg.Controller.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.Controller.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.Controller.Kd = kd
	}
	if flags.Changed("force") {
		cfg.Controller.Force = force
	}
	if cmd.Name() == "run" || cmd.Name() == "tune" {
		if flags.Changed("ticks") {
			cfg.Run.Ticks, _ = flags.GetInt("ticks")
		}
		if flags.Lookup("export") != nil && flags.Changed("export") {
			cfg.Run.ExportPath, _ = flags.GetString("export")
		}
		if flags.Lookup("export-every") != nil && flags.Changed("export-every") {
			cfg.Run.ExportEvery, _ = flags.GetInt("export-every")
		}
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, log)
	reg := experiment.NewRegistry()
	if err := exp.Setup(reg); err != nil {
		return err
	}
	r := exp.Rig()

	var gauges *metrics.Gauges
	if metricsFile != "" {
		gauges = metrics.NewGauges(r.Model().Type().String())
		r.AddObserver(gauges)
	}

	var recorder *storage.Recorder
	if cfg.Run.ExportPath != "" {
		recorder = storage.NewRecorder(storage.NewExporter(cfg.Run.ExportPath), cfg.Run.ExportEvery, log)
		r.AddObserver(recorder)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s bearing, %s controller, %d ticks (%.2fs)\n",
		r.Model().Type(), cfg.Controller.Name, cfg.Run.Ticks, cfg.Duration())

	result, runErr := exp.Run(ctx)
	if runErr != nil && !errors.Is(runErr, dynamo.ErrContextCanceled) {
		return runErr
	}
	if runErr != nil {
		fmt.Printf("interrupted after %d ticks\n", result.StepsTaken)
	}

	if recorder != nil {
		if err := recorder.Err(); err != nil {
			return fmt.Errorf("exporting telemetry: %w", err)
		}
		fmt.Printf("telemetry appended to %s\n", recorder.Path())
	}
	if gauges != nil {
		if err := gauges.WriteTextfile(metricsFile); err != nil {
			return err
		}
	}

	store := storage.New(dataDir, log)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(storage.RunMetadata{
		Bearing:    r.Model().Type().String(),
		Controller: cfg.Controller.Name,
		Params:     r.Model().GetParams(),
		Gains:      cfg.ControllerParams(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("\nrun: %s\n", runID)
	printSample(result.Final())
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

func printSample(s dynamo.Sample) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  time\t%.2f s\n", s.Time)
	fmt.Fprintf(w, "  displacement\t%.4f mm\n", s.Displacement*1000)
	fmt.Fprintf(w, "  velocity\t%.4f m/s\n", s.Velocity)
	fmt.Fprintf(w, "  friction\t%.2f N\n", s.Friction)
	fmt.Fprintf(w, "  energy loss\t%.2f J\n", s.EnergyLoss)
	fmt.Fprintf(w, "  temperature\t%.2f °C\n", s.Temperature)
	fmt.Fprintf(w, "  stress\t%.4g Pa\n", s.Stress)
	fmt.Fprintf(w, "  magnetic field\t%.6f T\n", s.MagneticField)
	w.Flush()
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%.4f\n", name, m[name])
	}
	w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir, log)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBEARING\tCONTROLLER\tTICKS\tENERGY LOSS\tPEAK TEMP\tTIME")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.2f\t%s\n",
			r.ID, r.Bearing, r.Controller, r.Ticks,
			r.Metrics["energy_loss"], r.Metrics["peak_temperature"],
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir, log)
	samples, err := store.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("run %s has no samples", args[0])
	}

	fields, _ := cmd.Flags().GetStringSlice("field")
	for _, name := range fields {
		series, err := analysis.Series(samples, name)
		if err != nil {
			return err
		}
		fmt.Println(asciigraph.Plot(downsample(series, 120),
			asciigraph.Height(12),
			asciigraph.Caption(name)))
		fmt.Println()
	}
	return nil
}

// downsample keeps at most n evenly spaced points.
func downsample(x []float64, n int) []float64 {
	if len(x) <= n {
		return x
	}
	out := make([]float64, n)
	step := float64(len(x)-1) / float64(n-1)
	for i := range out {
		out[i] = x[int(float64(i)*step)]
	}
	return out
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir, log)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir, log)
	samples, err := store.LoadSamples(args[0])
	if err != nil {
		return err
	}
	outPath, _ := cmd.Flags().GetString("out")
	every, _ := cmd.Flags().GetInt("every")
	if every < 1 {
		every = 1
	}

	recorder := storage.NewRecorder(storage.NewExporter(outPath), every, log)
	for _, s := range samples {
		recorder.OnStep(s)
	}
	if err := recorder.Err(); err != nil {
		return err
	}
	fmt.Printf("appended %d records to %s\n", len(samples)/every, recorder.Path())
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("out")
	store := storage.New(dataDir, log)
	if err := store.ExportJSON(args[0], outPath); err != nil {
		return err
	}
	if outPath != "" && outPath != "-" {
		fmt.Printf("exported %s to %s\n", args[0], outPath)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir, log)
	samples, err := store.LoadSamples(args[0])
	if err != nil {
		return err
	}
	report := analysis.Analyze(samples, dynamo.Dt)

	fmt.Printf("run %s: %d samples, %.2f s\n\n", args[0], report.Samples, report.Duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tMEAN\tSTD\tRMS\tMIN\tMAX\tPEAK")
	for _, name := range analysis.Fields {
		s := report.Fields[name]
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
			name, s.Mean, s.Std, s.RMS, s.Min, s.Max, s.Peak)
	}
	w.Flush()

	fmt.Printf("\ndominant displacement frequency: %.3f Hz (amplitude %.4g m)\n",
		report.DominantFrequency, report.DominantAmplitude)

	x, _ := analysis.Series(samples, "displacement")
	if _, amps := analysis.Spectrum(x, dynamo.Dt); len(amps) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(downsample(amps[1:], 120),
			asciigraph.Height(10),
			asciigraph.Caption("displacement spectrum")))
	}

	if showPhase {
		fmt.Println()
		fmt.Println(analysis.NewPhasePortrait(samples).ASCII(72, 24))
	}
	return nil
}

func chartRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir, log)
	samples, err := store.LoadSamples(args[0])
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	fields, _ := cmd.Flags().GetStringSlice("field")
	files, err := export.ChartRun(samples, fields, outPath, args[0])
	if err != nil {
		return err
	}
	spectrum := filepath.Join(outPath, args[0]+"_spectrum.png")
	if err := export.SpectrumChart(samples, spectrum); err != nil {
		return err
	}
	for _, f := range append(files, spectrum) {
		fmt.Println(f)
	}
	return nil
}

func compareBearings(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	n, _ := cmd.Flags().GetInt("ticks")
	results, err := rig.Compare(cmd.Context(), cfg.BearingModel(), n, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tENERGY LOSS (J)\tRIGIDITY (N/m)\tFRICTION (N)\tFIELD (T)\tTEMP (°C)")
	for _, c := range results {
		fmt.Fprintf(w, "%s\t%.2f\t%.4g\t%.2f\t%.6f\t%.2f\n",
			c.Type, c.EnergyLoss, c.Rigidity, c.Friction, c.MagneticField, c.Temperature)
	}
	return w.Flush()
}

func modalReport(cmd *cobra.Command, args []string) error {
	m := bearing.NewModel()
	gpa := modulus
	if material != "" && !cmd.Flags().Changed("modulus") {
		gpa = physics.YoungsModulus(material)
	}
	m.SetYoungsModulus(gpa)
	if mass <= 0 {
		return fmt.Errorf("%w: mass must be positive", dynamo.ErrParameterBounds)
	}

	report := physics.NewModalReport(physics.NewRotor(m).Stiffness(), mass)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "stiffness\t%.4g N/m\n", report.Stiffness)
	fmt.Fprintf(w, "mass\t%.3f kg\n", report.Mass)
	fmt.Fprintf(w, "resonance\t%.3f Hz\n", report.Resonance)
	for i, f := range report.Modes {
		fmt.Fprintf(w, "mode %d\t%.3f Hz\n", i+1, f)
	}
	fmt.Fprintf(w, "critical speed\t%.1f rpm\n", report.CriticalSpeed)
	return w.Flush()
}

func listMaterials(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MATERIAL\tYOUNG'S MODULUS (GPa)\tCONDUCTIVITY (W/m·K)\tDENSITY (kg/m³)")
	for _, name := range physics.MaterialNames() {
		m, _ := physics.LookupMaterial(name)
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.0f\n", m.Name, m.YoungsModulus, m.ThermalConductivity, m.Density)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if cmd.Flags().Lookup("bearing") != nil {
		var err error
		if cfg, err = buildConfig(cmd); err != nil {
			return err
		}
	} else {
		exportPath = storage.DefaultExportPath
		themeName = "lab"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctrl, err := experiment.NewRegistry().GetController(cfg.Controller.Name, cfg.ControllerParams())
	if err != nil {
		return err
	}
	r := rig.New(cfg.BearingModel(), ctrl, log)
	for _, m := range metrics.Defaults() {
		r.AddMetric(m)
	}

	model := viz.NewModel(r, viz.Options{
		ExportPath:    exportPath,
		ExportEvery:   cfg.Run.ExportEvery,
		TicksPerFrame: frameTicks,
		Theme:         themeName,
		Log:           log,
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	types := make([]string, 0, len(bearing.Types))
	if len(args) == 1 {
		types = append(types, strings.ToLower(args[0]))
	} else {
		for _, t := range bearing.Types {
			types = append(types, strings.ToLower(t.String()))
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSPEED (rpm)\tLOAD (N)\tMODULUS (GPa)\tCONTROLLER\tTICKS")
	for _, bt := range types {
		names := config.ListPresets(bt)
		if len(names) == 0 {
			return fmt.Errorf("no presets for bearing %q", bt)
		}
		for _, name := range names {
			p := config.GetPreset(bt, name)
			fmt.Fprintf(w, "%s/%s\t%.0f\t%.0f\t%.0f\t%s\t%d\n", bt, name,
				p.Bearing.SpindleSpeed, p.Bearing.Load, p.Bearing.YoungsModulus,
				p.Controller.Name, p.Run.Ticks)
		}
	}
	return w.Flush()
}

// parseGrid reads name=lo:hi:n or name=v1,v2,...
func parseGrid(arg string) (string, []float64, error) {
	name, values, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("grid %q: want name=lo:hi:n or name=v1,v2", arg)
	}
	if parts := strings.Split(values, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err := errors.Join(err1, err2, err3); err != nil {
			return "", nil, fmt.Errorf("grid %q: %w", arg, err)
		}
		return name, optim.Linspace(lo, hi, n), nil
	}

	var out []float64
	for _, f := range strings.Split(values, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("grid %q: %w", arg, err)
		}
		out = append(out, v)
	}
	return name, out, nil
}

func tuneRig(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	grids, _ := cmd.Flags().GetStringArray("grid")
	metric, _ := cmd.Flags().GetString("metric")
	top, _ := cmd.Flags().GetInt("top")

	names := make([]string, 0, len(grids))
	ranges := make([][]float64, 0, len(grids))
	for _, g := range grids {
		name, values, err := parseGrid(g)
		if err != nil {
			return err
		}
		if err := base.Clone().SetParam(name, 0); err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	search, err := optim.NewGridSearch(names, ranges, log)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := cfg.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(cfg, log)
		if err := exp.Setup(reg); err != nil {
			return nil, err
		}
		return exp, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("evaluating %d combinations of %s, minimising %s\n\n",
		search.Size(), strings.Join(names, ", "), metric)
	best, points, err := search.Search(ctx, build, metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metric))
	for i, p := range points {
		if i >= top {
			break
		}
		row := make([]string, len(names))
		for j, name := range names {
			row[j] = strconv.FormatFloat(p.Params[name], 'g', 6, 64)
		}
		if p.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", strings.Join(row, "\t"), p.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.6g\n", strings.Join(row, "\t"), p.Value)
	}
	w.Flush()

	fmt.Printf("\nbest %s = %.6g at %v\n", metric, best.Value, best.Params)
	return nil
}
