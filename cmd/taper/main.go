// Package main provides the CLI entrypoint for taper.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/taper/internal/config"
	"github.com/verte-zerg/taper/internal/model"
	"github.com/verte-zerg/taper/internal/store"
)

const (
	defaultAddr     = "127.0.0.1:8000"
	defaultBackend  = store.BackendJSON
	defaultLogLevel = "info"
)

var (
	configPath   string
	storeBackend string
	dataPath     string
	logLevel     string

	targetBeers    int
	targetWalk     float64
	targetSleep    float64
	targetWater    float64
	targetPlanDays int
	trackWater     bool
	showCurves     bool
)

// settings is the merged result of defaults, config file and flags.
type settings struct {
	opts     model.Options
	backend  string
	dataPath string
	addr     string
	logLevel string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := model.DefaultOptions()
	rootCmd := &cobra.Command{
		Use:           "taper",
		Short:         "Daily habit logger for a visceral fat and beer-taper plan",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file path (default: XDG config dir)")
	flags.StringVar(&storeBackend, "backend", defaultBackend, "store backend (json or sqlite)")
	flags.StringVar(&dataPath, "data", "", "data file path (default: XDG data dir)")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	flags.IntVar(&targetBeers, "target-beers", defaults.Targets.Beers, "daily beer limit")
	flags.Float64Var(&targetWalk, "target-walk", defaults.Targets.WalkKm, "daily walking target in km")
	flags.Float64Var(&targetSleep, "target-sleep", defaults.Targets.SleepH, "nightly sleep target in hours")
	flags.Float64Var(&targetWater, "target-water", defaults.Targets.WaterL, "daily water target in liters")
	flags.IntVar(&targetPlanDays, "plan-days", defaults.Targets.PlanDays, "length of the plan in days")
	flags.BoolVar(&trackWater, "track-water", defaults.Features.TrackWater, "record and show water intake")
	flags.BoolVar(&showCurves, "show-curves", defaults.Features.ShowCurves, "compute baseline and progress curves")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newDashCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadSettings reads the config file and lets explicitly set flags win.
func loadSettings(cmd *cobra.Command) (settings, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}

	opts := fileCfg.Options()
	beers, walk, sleep := opts.Targets.Beers, opts.Targets.WalkKm, opts.Targets.SleepH
	water, planDays := opts.Targets.WaterL, opts.Targets.PlanDays
	withWater, withCurves := opts.Features.TrackWater, opts.Features.ShowCurves
	applyIntFlag(cmd, "target-beers", &beers, targetBeers)
	applyFloatFlag(cmd, "target-walk", &walk, targetWalk)
	applyFloatFlag(cmd, "target-sleep", &sleep, targetSleep)
	applyFloatFlag(cmd, "target-water", &water, targetWater)
	applyIntFlag(cmd, "plan-days", &planDays, targetPlanDays)
	applyBoolFlag(cmd, "track-water", &withWater, trackWater)
	applyBoolFlag(cmd, "show-curves", &withCurves, showCurves)
	opts.Targets = model.Targets{Beers: beers, WalkKm: walk, SleepH: sleep, WaterL: water, PlanDays: planDays}
	opts.Features = model.Features{TrackWater: withWater, ShowCurves: withCurves}
	if err := config.ValidateOptions(opts); err != nil {
		return settings{}, err
	}

	s := settings{
		opts:     opts,
		backend:  storeBackend,
		dataPath: dataPath,
		addr:     defaultAddr,
		logLevel: logLevel,
	}
	applyStringConfig(cmd, "backend", &s.backend, fileCfg.Store.Backend)
	applyStringConfig(cmd, "data", &s.dataPath, fileCfg.Store.Path)
	applyStringConfig(cmd, "log-level", &s.logLevel, fileCfg.Log.Level)
	s.backend = store.NormalizeBackend(s.backend)
	if fileCfg.Server.Addr != nil {
		s.addr = *fileCfg.Server.Addr
	}
	if s.dataPath == "" {
		s.dataPath = config.DefaultDataPath(s.backend)
	}
	if err := configureLogging(s.logLevel); err != nil {
		return settings{}, err
	}
	return s, nil
}

func (s settings) openStore() (store.Store, error) {
	st, err := store.Open(s.backend, s.dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	slog.Debug("store opened",
		"module", "cli",
		"backend", s.backend,
		"path", s.dataPath,
	)
	return st, nil
}

func closeStore(st store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close store: %v\n", cerr)
	}
}

func configureLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, value int) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func applyFloatFlag(cmd *cobra.Command, name string, target *float64, value float64) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func applyBoolFlag(cmd *cobra.Command, name string, target *bool, value bool) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func defaultConfigTemplate() string {
	d := model.DefaultOptions()
	return fmt.Sprintf(`# taper configuration
# Uncomment a value to enable it. CLI flags override config values.

[targets]
# beers = %d              # Daily beer limit
# walk = %g               # Daily walking target (km)
# sleep = %g               # Nightly sleep target (hours)
# water = %g             # Daily water target (liters)
# plan-days = %d          # Length of the baseline plan

[features]
# track-water = %t      # Record and show water intake
# show-curves = %t      # Compute baseline/progress curves

[server]
# addr = %q

[store]
# backend = %q        # "json" or "sqlite"
# path = ""              # Defaults to the XDG data dir

[log]
# level = %q          # debug, info, warn, error
`,
		d.Targets.Beers,
		d.Targets.WalkKm,
		d.Targets.SleepH,
		d.Targets.WaterL,
		d.Targets.PlanDays,
		d.Features.TrackWater,
		d.Features.ShowCurves,
		defaultAddr,
		defaultBackend,
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
