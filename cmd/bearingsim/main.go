package main

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/san-kum/bearingsim/internal/logging"
	"github.com/san-kum/bearingsim/internal/rig"
)

var (
	dataDir     string
	verbosity   int
	devLog      bool
	metricsFile string
	configFile  string
	preset      string

	bearingType string
	material    string
	speed       float64
	load        float64
	modulus     float64
	controller  string
	kp          float64
	ki          float64
	kd          float64
	force       float64
	exportPath  string
	showPhase   bool
	mass        float64
	frameTicks  int
	themeName   string

	log = logr.Discard()
)

// main registers the commands and exits with status 1 when the selected
// command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "bearingsim",
		Short:        "rotor-bearing simulation lab",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logging.NewLogger(verbosity, devLog)
		},
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bearingsim", "data directory")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "log verbosity (repeat for more)")
	rootCmd.PersistentFlags().BoolVar(&devLog, "log-dev", false, "human readable log output")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a closed-loop simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRigFlags(runCmd)
	runCmd.Flags().Int("ticks", 1000, "number of 10 ms ticks")
	runCmd.Flags().String("export", "", "append telemetry CSV to this file")
	runCmd.Flags().Int("export-every", 100, "ticks between exported records")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus textfile metrics here")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run telemetry in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSlice("field", []string{"displacement", "temperature", "energy_loss"}, "fields to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "append a run to a telemetry CSV, one record per second",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringP("out", "o", "simulation_data.csv", "output file")
	exportCSVCmd.Flags().Int("every", 100, "ticks between records")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringP("out", "o", "-", "output file (- for stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "statistics and displacement spectrum of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().BoolVar(&showPhase, "phase", false, "also print the phase portrait")

	chartCmd := &cobra.Command{
		Use:   "chart [run_id]",
		Short: "render PNG charts of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  chartRun,
	}
	chartCmd.Flags().StringP("out", "o", "charts", "output directory")
	chartCmd.Flags().StringSlice("field", []string{"displacement", "velocity", "temperature", "energy_loss", "control_force"}, "fields to chart")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare bearing types from rest without control",
		Args:  cobra.NoArgs,
		RunE:  compareBearings,
	}
	addBearingFlags(compareCmd)
	compareCmd.Flags().Int("ticks", rig.CompareTicks, "ticks per bearing type")

	modalCmd := &cobra.Command{
		Use:   "modal",
		Short: "resonance, vibration modes and critical speed",
		Args:  cobra.NoArgs,
		RunE:  modalReport,
	}
	modalCmd.Flags().Float64Var(&modulus, "modulus", 380, "Young's modulus (GPa)")
	modalCmd.Flags().StringVar(&material, "material", "", "take Young's modulus from a material")
	modalCmd.Flags().Float64Var(&mass, "mass", 1.0, "rotor mass (kg)")

	materialsCmd := &cobra.Command{
		Use:   "materials",
		Short: "list bearing materials",
		Args:  cobra.NoArgs,
		RunE:  listMaterials,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive dashboard",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRigFlags(liveCmd)
	liveCmd.Flags().StringVar(&exportPath, "export", "simulation_data.csv", "telemetry CSV (empty disables)")
	liveCmd.Flags().IntVar(&frameTicks, "ticks-per-frame", 1, "simulation ticks per frame")
	liveCmd.Flags().StringVar(&themeName, "theme", "lab", "colour theme")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters for the lowest metric",
		Long: "Each --grid is name=lo:hi:n for n evenly spaced values or name=v1,v2,... " +
			"Tunable names: speed, load, modulus, kp, ki, kd, force.",
		Args: cobra.NoArgs,
		RunE: tuneRig,
	}
	addRigFlags(tuneCmd)
	tuneCmd.Flags().Int("ticks", 500, "ticks per evaluated run")
	tuneCmd.Flags().StringArray("grid", []string{"kp=500:1500:5", "kd=10:90:5"}, "parameter grid")
	tuneCmd.Flags().String("metric", "control_effort", "metric to minimise")
	tuneCmd.Flags().Int("top", 10, "rows to print")

	presetsCmd := &cobra.Command{
		Use:   "presets [bearing]",
		Short: "list presets for a bearing type",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		analyzeCmd, chartCmd, compareCmd, modalCmd, materialsCmd, liveCmd, tuneCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addBearingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&bearingType, "bearing", "Hybrid", "bearing type (Magnetic, Ceramic, Hybrid)")
	cmd.Flags().StringVar(&material, "material", "", "take Young's modulus from a material")
	cmd.Flags().Float64Var(&speed, "speed", 10000, "spindle speed (rpm)")
	cmd.Flags().Float64Var(&load, "load", 500, "load (N)")
	cmd.Flags().Float64Var(&modulus, "modulus", 380, "Young's modulus (GPa)")
}

func addRigFlags(cmd *cobra.Command) {
	addBearingFlags(cmd)
	cmd.Flags().StringVar(&controller, "controller", "pid", "controller (none, pid, manual)")
	cmd.Flags().Float64Var(&kp, "kp", 1000, "proportional gain")
	cmd.Flags().Float64Var(&ki, "ki", 10, "integral gain")
	cmd.Flags().Float64Var(&kd, "kd", 50, "derivative gain")
	cmd.Flags().Float64Var(&force, "force", 0, "constant force for the manual controller (N)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset as bearing/name, e.g. hybrid/nominal")
}
