package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/config"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/integrators"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/observers"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/sim"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/tui"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/viz"
)

var (
	configFile string
	preset     string
	runID      string
	tfYears    float64
	omega0     float64
	tInf0      float64
	noOutput   bool
	plotTag    string
	plotIndex  int
	catalogOut string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "compactstar",
		Short: "compact-star rotational, thermal, and chemical evolution",
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "yaml config file")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "preset name (classical, magnetar, cooling-only, rotochemical, exotic)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the evolution and record diagnostics",
		RunE:  runEvolution,
	}
	runCmd.Flags().StringVar(&runID, "run-id", "", "override run id")
	runCmd.Flags().Float64Var(&tfYears, "tf", 0, "final time in years (0 = config)")
	runCmd.Flags().Float64Var(&omega0, "omega", 0, "initial angular frequency rad/s (0 = config)")
	runCmd.Flags().Float64Var(&tInf0, "temp", 0, "initial internal temperature K (0 = config)")
	runCmd.Flags().BoolVar(&noOutput, "no-output", false, "skip diagnostics/time-series files")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "run in memory and plot one state component",
		RunE:  runPlot,
	}
	plotCmd.Flags().StringVar(&plotTag, "tag", "spin", "state block to plot")
	plotCmd.Flags().IntVar(&plotIndex, "component", 0, "component index within the block")

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "dump the diagnostics catalog for the enabled drivers",
		RunE:  runCatalog,
	}
	catalogCmd.Flags().StringVar(&catalogOut, "out", "", "write to file instead of stdout")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live terminal view",
		RunE:  runLive,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, plotCmd, catalogCmd, liveCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	case preset != "":
		mk, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
		cfg = mk()
	default:
		cfg = config.DefaultConfig()
	}

	if runID != "" {
		cfg.Run.RunID = runID
	}
	if tfYears > 0 {
		cfg.Run.TFYears = tfYears
	}
	if omega0 > 0 {
		cfg.Init.Omega = omega0
	}
	if tInf0 > 0 {
		cfg.Init.TInf = tInf0
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func attachOutputs(s *setup) error {
	out := s.cfg.Output
	schedule := observers.Schedule{
		EverySamples: out.EverySamples,
		EveryTime:    out.EveryTime,
	}

	if out.Diagnostics != "" {
		s.rhs.AddObserver(observers.NewDiagnostics(out.Diagnostics, schedule, s.rhs.Drivers()))
	}
	if out.TimeSeries != "" {
		ts := observers.NewTimeSeries(out.TimeSeries, schedule, s.rhs.Drivers(), out.Columns, out.Profile)
		if out.Delimiter == "tsv" {
			ts.SetDelimiter('\t')
		}
		ts.SetPrecision(out.Precision)
		if out.Sidecar != "" {
			ts.SetSidecar(out.Sidecar)
		}
		s.rhs.AddObserver(ts)
	}
	return nil
}

func integratorStats(integ integrators.Integrator) integrators.Stats {
	switch i := integ.(type) {
	case *integrators.RK45:
		return i.Stats()
	case *integrators.RK4:
		return i.Stats()
	}
	return integrators.Stats{}
}

func runEvolution(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := build(cfg)
	if err != nil {
		return err
	}
	if !noOutput {
		if err := attachOutputs(s); err != nil {
			return err
		}
	}

	integ, err := s.integrator()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	result, runErr := sim.New(s.rhs, integ).Run(ctx, s.y0, s.runCfg)
	if result != nil {
		fmt.Println(viz.Summary(result, s.layout, integratorStats(integ)))
	}
	return runErr
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := build(cfg)
	if err != nil {
		return err
	}

	var tag engine.Tag
	found := false
	for _, t := range engine.AllTags() {
		if t.String() == plotTag {
			tag, found = t, true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown tag %q", plotTag)
	}

	integ, err := s.integrator()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	result, runErr := sim.New(s.rhs, integ).Run(ctx, s.y0, s.runCfg)
	if runErr != nil {
		return runErr
	}
	plot, err := viz.PlotComponent(result, s.layout, tag, plotIndex)
	if err != nil {
		return err
	}
	fmt.Println(plot)
	return nil
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := build(cfg)
	if err != nil {
		return err
	}

	// The diagnostics observer assembles the merged catalog; no file opens
	// until a run starts, so it is safe to use for the dump alone.
	d := observers.NewDiagnostics(os.DevNull, observers.Schedule{}, s.rhs.Drivers())
	if catalogOut != "" {
		return d.Catalog().SaveJSON(catalogOut)
	}
	return d.Catalog().WriteJSON(os.Stdout)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := build(cfg)
	if err != nil {
		return err
	}

	feed := tui.NewFeed(cfg.Output.EverySamples)
	s.rhs.AddObserver(feed)

	integ, err := s.integrator()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		_, runErr := sim.New(s.rhs, integ).Run(ctx, s.y0, s.runCfg)
		errCh <- runErr
	}()

	if _, err := tui.NewProgram(feed, cfg.Run.RunID).Run(); err != nil {
		return err
	}
	stop()
	return <-errCh
}
