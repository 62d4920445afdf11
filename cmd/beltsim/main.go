package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/beltsim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	theme    string

	// case selection
	configFile string
	preset     string
	runName    string

	// belt overrides
	totalTime  float64
	beltLength float64
	resolution float64
	velocity   float64
	endMargin  float64

	noSave     bool
	saveRuns   bool
	quiet      bool
	withBunker bool

	// output
	csvOutDir   string
	jsonOutPath string
	svgOutPath  string
	plotKind    string
	plotHeight  int
	plotWidth   int
	reportPath  string
	bunkerCase  string

	// sweep
	sweepSpec        string
	sweepParam       string
	sweepValues      string
	objective        string
	maximize         bool
	sweepConcurrency int

	// serve
	addr             string
	serveConcurrency int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Each command binds its own flag
// variables so defaults registered by one command never leak into another.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "beltsim",
		Short:         "conveyor belt blending simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logrus.SetLevel(level)
			viz.SetTheme(theme)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".beltsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "plant", fmt.Sprintf("colour theme %v", viz.ThemeNames()))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a case and store the results",
		Args:  cobra.NoArgs,
		RunE:  runCase,
	}
	addCaseFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to the case name)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the run id")
	runCmd.Flags().BoolVar(&withBunker, "bunker", false, "feed the discharge through the bin and bunker")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "check a case without running it",
		Args:  cobra.NoArgs,
		RunE:  validateCase,
	}
	addCaseFlags(validateCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "summarise a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotKind, "kind", "flow", "flow, total, proportions, chemistry, belt or all")
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "chart height")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "chart width")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export flow, proportions and chemistry to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&csvOutDir, "out", "o", ".", "output directory")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export the complete results to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&jsonOutPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "chart the discharge as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOutPath, "out", "o", "", "output file (default <run_id>.svg)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "transit times and discharge frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	bunkerCmd := &cobra.Command{
		Use:   "bunker [run_id]",
		Short: "charge a stored run's discharge into the bin and bunker",
		Args:  cobra.ExactArgs(1),
		RunE:  bunkerRun,
	}
	bunkerCmd.Flags().StringVar(&bunkerCase, "config", "", "case file with a bunker section")
	bunkerCmd.Flags().StringVar(&reportPath, "report", "", "write the CSV material flow report here")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as a case file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a case over a grid of belt parameters",
		Args:  cobra.NoArgs,
		RunE:  sweepCase,
	}
	addCaseFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepSpec, "spec", "", "sweep file (yaml)")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter to sweep")
	sweepCmd.Flags().StringVar(&sweepValues, "values", "", "comma separated values")
	sweepCmd.Flags().StringVar(&objective, "objective", "balance_error", "metric ranking the points")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "rank by highest objective")
	sweepCmd.Flags().IntVar(&sweepConcurrency, "concurrency", 0, "parallel runs (0 = unlimited)")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "step through a stored run interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the engine over a websocket",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&serveConcurrency, "concurrency", 2, "parallel runs per connection")
	serveCmd.Flags().BoolVar(&saveRuns, "save", false, "store every completed run")

	rootCmd.AddCommand(runCmd, validateCmd, listCmd, showCmd, deleteCmd, plotCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, analyzeCmd, bunkerCmd, presetsCmd, sweepCmd, replayCmd, serveCmd)

	return rootCmd
}

func addCaseFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "case file (yaml or json)")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset case")
	cmd.Flags().Float64Var(&totalTime, "time", 0, "override total_time (s)")
	cmd.Flags().Float64Var(&beltLength, "length", 0, "override belt length (m)")
	cmd.Flags().Float64Var(&resolution, "resolution", 0, "override cell size (m)")
	cmd.Flags().Float64Var(&velocity, "velocity", 0, "override belt velocity (m/s)")
	cmd.Flags().Float64Var(&endMargin, "end-margin", 0, "latest allowed source end as a multiple of total_time (<= 0 disables)")
}
