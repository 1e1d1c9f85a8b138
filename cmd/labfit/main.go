package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/labfit/internal/config"
	"github.com/san-kum/labfit/internal/dataset"
	"github.com/san-kum/labfit/internal/fit"
	"github.com/san-kum/labfit/internal/model"
	"github.com/san-kum/labfit/internal/plot"
	"github.com/san-kum/labfit/internal/report"
	"github.com/san-kum/labfit/internal/storage"
)

var (
	dataDir string
	// fit flags
	configFile string
	preset     string
	modelName  string
	xColumn    string
	yColumn    string
	guess      string
	yError     float64
	dof        int
	output     string
	autoGuess  bool
	noSave     bool
	iterations int
	terminal   bool
	starts     int
	seed       int64
	// plot size for terminal charts
	plotWidth  int
	plotHeight int
	svgPath    string
)

// main runs the labfit CLI and exits 1 when a command fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "labfit",
		Short:        "measurement uncertainty and curve fitting lab",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".labfit", "data directory")

	fitCmd := &cobra.Command{
		Use:   "fit [csv]",
		Short: "fit a model to a data file and report the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFit,
	}
	fitCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	fitCmd.Flags().StringVar(&preset, "preset", "", "preset for --model, applied beneath --config")
	fitCmd.Flags().StringVar(&modelName, "model", config.DefaultModel, "model to fit")
	fitCmd.Flags().StringVar(&xColumn, "x-col", config.DefaultXColumn, "x column header")
	fitCmd.Flags().StringVar(&yColumn, "y-col", config.DefaultYColumn, "y column header")
	fitCmd.Flags().StringVar(&guess, "guess", "", "comma separated initial parameters")
	fitCmd.Flags().Float64Var(&yError, "yerror", config.DefaultYError, "per-point y uncertainty")
	fitCmd.Flags().IntVar(&dof, "dof", config.DefaultDoF, "degrees of freedom for reduced chi-squared (0 = n-p)")
	fitCmd.Flags().StringVar(&output, "out", config.DefaultOutput, "svg output path (empty to skip)")
	fitCmd.Flags().BoolVar(&autoGuess, "auto-guess", false, "estimate the initial guess from the data (dho)")
	fitCmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the run")
	fitCmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "solver iteration limit")
	fitCmd.Flags().BoolVar(&terminal, "terminal", false, "also draw the fit in the terminal")
	fitCmd.Flags().IntVar(&starts, "starts", 1, "number of perturbed starting guesses")
	fitCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for perturbed starts")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved fits",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print the report of a saved fit",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved fit in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "chart width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "chart height")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the figure to this svg path")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved fit as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export x, y, fit and residual as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default (or --preset) config to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "preset to write")
	initCmd.Flags().StringVar(&modelName, "model", config.DefaultModel, "model of the preset")

	rootCmd.AddCommand(fitCmd, listCmd, showCmd, plotCmd, exportCmd, exportCSVCmd, presetsCmd, initCmd, newMeasureCmd())
	return rootCmd
}

func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	// The preset is the base; a config file overrides only the keys it sets.
	if preset != "" {
		name := modelName
		if !cmd.Flags().Changed("model") && configFile != "" {
			fileCfg, err := config.Load(configFile)
			if err != nil {
				return nil, fmt.Errorf("load config: %w", err)
			}
			name = fileCfg.Model
		}
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q for model %s (available: %v)", preset, name, config.ListPresets(name))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = modelName
	}
	if flags.Changed("x-col") {
		cfg.Axes.XColumn = xColumn
	}
	if flags.Changed("y-col") {
		cfg.Axes.YColumn = yColumn
	}
	if flags.Changed("guess") {
		p, err := parseFloats(guess)
		if err != nil {
			return nil, fmt.Errorf("--guess: %w", err)
		}
		cfg.InitialGuess = p
		cfg.AutoGuess = false
	}
	if flags.Changed("yerror") {
		cfg.YError = yError
	}
	if flags.Changed("dof") {
		cfg.DoF = dof
	}
	if flags.Changed("out") {
		cfg.Output = output
	}
	if flags.Changed("auto-guess") {
		cfg.AutoGuess = autoGuess
	}
	if flags.Changed("iterations") {
		cfg.Solver.Iterations = iterations
	}
	if flags.Changed("starts") {
		cfg.Solver.Starts = starts
	}
	if flags.Changed("seed") || cfg.Solver.Seed == 0 {
		cfg.Solver.Seed = seed
	}
	if len(args) > 0 {
		cfg.DataFile = args[0]
	}

	return cfg, nil
}

func runFit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := model.NewRegistry()
	if err := cfg.Validate(registry); err != nil {
		return err
	}
	m, err := registry.Get(cfg.Model)
	if err != nil {
		return err
	}

	x, y, err := dataset.LoadXY(cfg.DataFile, cfg.Axes.XColumn, cfg.Axes.YColumn)
	if err != nil {
		return err
	}

	opts := cfg.FitOptions()
	if cfg.AutoGuess {
		p0, err := fit.EstimateGuess(x, y)
		if err != nil {
			return err
		}
		opts.InitialGuess = p0
		fmt.Fprintf(out, "estimated initial guess: %v\n", formatFloats(p0))
	}

	fmt.Fprintf(out, "fitting %s to %d points from %s (%d start(s))...\n\n", m.Name(), len(x), cfg.DataFile, cfg.Solver.Starts)
	start := time.Now()

	ensemble := fit.NewEnsemble(cfg.Solver.Starts, cfg.Solver.Seed, cfg.Solver.Spread)
	res, err := ensemble.Run(cmd.Context(), m, x, y, opts)
	if err != nil {
		return err
	}

	if err := report.Fit(out, cfg.Axes.Title, res); err != nil {
		return err
	}
	fmt.Fprintf(out, "\ncompleted in %v\n", time.Since(start))

	fig := figure(cfg.Axes, res)
	if cfg.Output != "" {
		if err := plot.WriteSVG(cfg.Output, fig); err != nil {
			return err
		}
		fmt.Fprintf(out, "figure: %s\n", cfg.Output)
	}
	if terminal {
		chart, err := fig.Terminal(80, 12)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s\n", chart)
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, opts.InitialGuess, res)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "run id: %s\n", runID)
	return nil
}

func figure(axes config.AxesConfig, res *fit.Result) *plot.Figure {
	return &plot.Figure{
		Title:     axes.Title,
		XLabel:    axes.XColumn,
		XUnits:    axes.XUnits,
		YLabel:    axes.YColumn,
		YUnits:    axes.YUnits,
		X:         res.X,
		Y:         res.Y,
		Fit:       res.Fitted,
		Residuals: res.Residuals,
		RMS:       res.RMS,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tSAMPLES\tRMS\tCHI2/DOF\tDATA")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3f\t%.3f\t%s\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Samples,
			run.RMS,
			run.ReducedChiSquared,
			run.DataFile,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	return report.Fit(cmd.OutOrStdout(), meta.Axes.Title, meta.Result(series))
}

func plotRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "model: %s\n", meta.Model)
	fmt.Fprintf(out, "samples: %d\n\n", len(series.X))

	fig := figure(meta.Axes, meta.Result(series))
	chart, err := fig.Terminal(plotWidth, plotHeight)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, chart)

	if svgPath != "" {
		if err := plot.WriteSVG(svgPath, fig); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nfigure: %s\n", svgPath)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	return storage.ExportJSON(cmd.OutOrStdout(), meta, series)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(cmd.OutOrStdout())
	header := []string{meta.Axes.XColumn, meta.Axes.YColumn, "fit", "residual"}
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range series.X {
		row := []string{
			strconv.FormatFloat(series.X[i], 'f', 6, 64),
			strconv.FormatFloat(series.Y[i], 'f', 6, 64),
			strconv.FormatFloat(series.Fit[i], 'f', 6, 64),
			strconv.FormatFloat(series.Residual[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	models := model.NewRegistry().List()
	if len(args) == 1 {
		models = []string{args[0]}
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tPRESET\tTITLE\tGUESS")
	found := false
	for _, name := range models {
		for _, p := range config.ListPresets(name) {
			cfg := config.GetPreset(name, p)
			g := formatFloats(cfg.InitialGuess)
			if cfg.AutoGuess {
				g = "auto"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, p, cfg.Axes.Title, g)
			found = true
		}
	}
	if !found {
		return fmt.Errorf("no presets for %v", models)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(modelName, preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset %q for model %s", preset, modelName)
		}
	}

	if _, err := os.Stat(args[0]); err == nil {
		return fmt.Errorf("%s already exists", args[0])
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
	return nil
}

func parseFloats(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func formatFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', 4, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
