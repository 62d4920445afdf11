package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/beltsim/internal/bunker"
	"github.com/san-kum/beltsim/internal/config"
	"github.com/san-kum/beltsim/internal/optim"
	"github.com/san-kum/beltsim/internal/server"
	"github.com/san-kum/beltsim/internal/sim"
	"github.com/san-kum/beltsim/internal/storage"
	"github.com/san-kum/beltsim/internal/tui"
	"github.com/san-kum/beltsim/internal/viz"
)

// loadCase picks the case from --config or --preset, then applies the belt
// override flags that were set.
func loadCase(cmd *cobra.Command) (*config.Case, error) {
	var c *config.Case
	switch {
	case configFile != "" && preset != "":
		return nil, errors.New("use either --config or --preset, not both")
	case configFile != "":
		var err error
		if c, err = config.Load(configFile); err != nil {
			return nil, err
		}
	case preset != "":
		if c = config.GetPreset(preset); c == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets())
		}
	default:
		return nil, errors.New("no case given: pass --config or --preset")
	}

	flags := cmd.Flags()
	if flags.Changed("time") {
		c.TotalTime = totalTime
	}
	if flags.Changed("length") {
		c.Belt.Length = beltLength
	}
	if flags.Changed("resolution") {
		c.Belt.Resolution = resolution
	}
	if flags.Changed("velocity") {
		c.Belt.Velocity = velocity
	}
	return c, nil
}

func newEngine(cmd *cobra.Command, c *config.Case) *sim.Engine {
	opts := append(c.EngineOptions(), sim.WithLogger(logrus.StandardLogger()))
	if cmd.Flags().Changed("end-margin") {
		opts = append(opts, sim.WithEndTimeMargin(endMargin))
	}
	return sim.New(opts...)
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

// loadRun resolves an ID prefix and reads the full results.
func loadRun(prefix string) (string, *sim.Results, error) {
	st := storage.New(dataDir)
	id, err := st.Resolve(prefix)
	if err != nil {
		return "", nil, err
	}
	res, err := st.LoadResults(id)
	if err != nil {
		return "", nil, fmt.Errorf("loading run %s: %w", id, err)
	}
	return id, res, nil
}

func runCase(cmd *cobra.Command, args []string) error {
	c, err := loadCase(cmd)
	if err != nil {
		return err
	}
	p, err := c.Parameters()
	if err != nil {
		return err
	}

	name := runName
	if name == "" {
		name = c.Name
	}
	if name == "" {
		name = "unnamed"
	}

	logrus.WithFields(logrus.Fields{"case": name, "sources": len(p.Sources)}).Info("running case")
	res, err := newEngine(cmd, c).Run(p)
	if err != nil {
		return err
	}

	runID := "(not saved)"
	if !noSave {
		st, err := openStore()
		if err != nil {
			return err
		}
		if runID, err = st.Save(name, res); err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
		logrus.WithField("id", runID).Info("run saved")
	}

	if quiet {
		fmt.Println(runID)
		return nil
	}
	fmt.Print(viz.Summary(fmt.Sprintf("%s  %s", name, runID), res))

	if withBunker {
		return chargeBunker(c.BunkerConfig(), res, "")
	}
	return nil
}

func validateCase(cmd *cobra.Command, args []string) error {
	c, err := loadCase(cmd)
	if err != nil {
		return err
	}
	p, err := c.Parameters()
	if err != nil {
		return err
	}
	ws, err := newEngine(cmd, c).Validate(p)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d columns, %d steps (dt %gs)\n", p.Materials, p.Columns(), p.Steps(), p.Dt())
	for _, w := range ws {
		fmt.Println("warning:", w)
	}
	if len(ws) == 0 {
		fmt.Println("ok")
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tDT\tMATERIALS\tCHEM\tOUTPUT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%v\t%.3f\n",
			run.ID[:8],
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.TotalTime,
			run.Dt,
			strings.Join(run.Materials, ","),
			run.Chemistry,
			run.MassBalance.TotalOutput,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	id, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	fmt.Print(viz.Summary("run "+id, res))
	fmt.Println()
	fmt.Println(viz.Title.Render("Belt at end of run"))
	fmt.Print(viz.BeltProfile(res.FinalGrid, 60, 4))
	return nil
}

func deleteRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	id, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := st.Delete(id); err != nil {
		return err
	}
	fmt.Println("deleted", id)
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		c := config.GetPreset(args[0])
		if c == nil {
			return fmt.Errorf("unknown preset %q (available: %v)", args[0], config.ListPresets())
		}
		out, err := yaml.Marshal(c)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range config.ListPresets() {
		fmt.Fprintf(w, "%s\t%s\n", name, config.GetPreset(name).Description)
	}
	return w.Flush()
}

func bunkerRun(cmd *cobra.Command, args []string) error {
	_, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	cfg := bunker.DefaultConfig()
	if bunkerCase != "" {
		c, err := config.Load(bunkerCase)
		if err != nil {
			return err
		}
		cfg = c.BunkerConfig()
	}
	return chargeBunker(cfg, res, reportPath)
}

func chargeBunker(cfg bunker.Config, res *sim.Results, report string) error {
	sys, err := bunker.NewSystem(cfg, logrus.StandardLogger())
	if err != nil {
		return err
	}
	if err := sys.ProcessDischarge(res); err != nil {
		if errors.Is(err, sim.ErrNoChemistry) {
			return fmt.Errorf("bunker charging needs a run with chemistry enabled: %w", err)
		}
		return err
	}

	fmt.Println()
	fmt.Println(viz.BunkerView(sys, 30))
	fmt.Printf("%s %d transfers, %.2f m³ fed\n", viz.MetricLabel.Render("charging:"), len(sys.Transfers()), sys.Fed())

	if report == "" {
		return nil
	}
	f, err := os.Create(report)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := sys.WriteReport(f, time.Now()); err != nil {
		return err
	}
	fmt.Println("report written to", report)
	return nil
}

func sweepCase(cmd *cobra.Command, args []string) error {
	c, err := loadCase(cmd)
	if err != nil {
		return err
	}
	base, err := c.Parameters()
	if err != nil {
		return err
	}

	spec := &optim.Spec{Objective: objective, Maximize: maximize, Columns: optim.DefaultColumns(), Concurrency: sweepConcurrency}
	if sweepSpec != "" {
		if spec, err = optim.LoadSpec(sweepSpec); err != nil {
			return err
		}
	}
	if sweepParam != "" {
		values, err := optim.ParseValues(sweepValues)
		if err != nil {
			return err
		}
		spec.Axes = append(spec.Axes, optim.Axis{Param: sweepParam, Values: values})
	}

	g, err := optim.NewGridSearch(spec.Axes)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logrus.WithField("points", g.Size()).Info("sweeping")
	sw, err := g.Run(ctx, newEngine(cmd, c), spec.Concurrency, base)
	if err != nil {
		return err
	}

	if err := sw.WriteTable(os.Stdout, spec.Columns); err != nil {
		return err
	}
	best, v, err := sw.Best(spec.Objective, spec.Maximize)
	if err != nil {
		return err
	}
	fmt.Printf("\nbest %s = %.4f at %v\n", spec.Objective, v, best.Values)
	return nil
}

func replayRun(cmd *cobra.Command, args []string) error {
	id, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return tui.Run(id[:8], res)
}

func serve(cmd *cobra.Command, args []string) error {
	opts := []server.Option{
		server.WithLogger(logrus.StandardLogger()),
		server.WithConcurrency(serveConcurrency),
	}
	if saveRuns {
		st, err := openStore()
		if err != nil {
			return err
		}
		opts = append(opts, server.WithStore(st))
	}
	if logrus.GetLevel() < logrus.InfoLevel {
		logrus.SetLevel(logrus.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return server.NewServer(addr, opts...).ListenAndServe(ctx)
}
