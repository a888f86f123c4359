package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/taper/internal/dashui"
	"github.com/verte-zerg/taper/internal/model"
	"github.com/verte-zerg/taper/internal/stats"
	"github.com/verte-zerg/taper/internal/store"
	"github.com/verte-zerg/taper/internal/tui"
)

var (
	logDate  string
	logBeers int
	logWalk  float64
	logMeals int
	logSleep float64
	logWater float64

	reportWidth int
	reportColor bool
)

var entryFlags = []string{"beers", "walk", "meals", "sleep", "water"}

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record today's habits (form, or flags for scripting)",
		Args:  cobra.NoArgs,
		RunE:  runLogCmd,
	}
	cmd.Flags().StringVar(&logDate, "date", "", "date to record (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&logBeers, "beers", 0, "beers drunk")
	cmd.Flags().Float64Var(&logWalk, "walk", 0, "kilometres walked")
	cmd.Flags().IntVar(&logMeals, "meals", 0, "meals eaten (0-3)")
	cmd.Flags().Float64Var(&logSleep, "sleep", 0, "hours slept")
	cmd.Flags().Float64Var(&logWater, "water", 0, "liters of water")
	return cmd
}

func runLogCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	day := time.Now()
	if logDate != "" {
		day, err = model.ParseDate(logDate)
		if err != nil {
			return fmt.Errorf("invalid --date value: %w", err)
		}
	}
	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if anyChanged(cmd, entryFlags) {
		entry, err := entryFromFlags(cmd, s.opts.Features.TrackWater)
		if err != nil {
			return err
		}
		date := model.DateKey(day)
		if err := store.Record(cmd.Context(), st, date, entry); err != nil {
			return fmt.Errorf("failed to record entry: %w", err)
		}
		logErrf("Recorded %s: %s\n", date, describeEntry(entry))
		return nil
	}

	form := tui.NewModel(st, s.opts, day)
	program := tea.NewProgram(form, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run log form: %w", err)
	}
	if form.Saved() {
		logErrf("Recorded %s: %s\n", model.DateKey(day), describeEntry(form.Entry()))
	}
	return nil
}

func describeEntry(e model.DailyEntry) string {
	out := fmt.Sprintf("beers=%d walk=%gkm meals=%d", e.Beers, e.WalkKm, e.Meals)
	if e.WaterL != nil {
		out += fmt.Sprintf(" water=%gL", *e.WaterL)
	}
	return out + fmt.Sprintf(" sleep=%gh", e.SleepH)
}

func anyChanged(cmd *cobra.Command, names []string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func entryFromFlags(cmd *cobra.Command, trackWater bool) (model.DailyEntry, error) {
	required := []string{"beers", "walk", "meals", "sleep"}
	if trackWater {
		required = append(required, "water")
	}
	for _, name := range required {
		if !cmd.Flags().Changed(name) {
			return model.DailyEntry{}, fmt.Errorf("--%s is required when logging with flags", name)
		}
	}
	entry := model.DailyEntry{
		Beers:  logBeers,
		WalkKm: logWalk,
		Meals:  logMeals,
		SleepH: logSleep,
	}
	if cmd.Flags().Changed("water") {
		entry.WaterL = model.Float64(logWater)
	}
	if err := entry.Validate(trackWater); err != nil {
		return model.DailyEntry{}, err
	}
	return entry, nil
}

func newDashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Open the terminal dashboard",
		Args:  cobra.NoArgs,
		RunE:  runDashCmd,
	}
}

func runDashCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	dash := dashui.NewModel(st, s.opts, time.Now)
	program := tea.NewProgram(dash, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a plain-text report",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().IntVar(&reportWidth, "width", 0, "output width (default: terminal width)")
	cmd.Flags().BoolVar(&reportColor, "color", false, "force colored plots")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	report, err := stats.BuildReport(cmd.Context(), st, s.opts, time.Now())
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderText(cmd.OutOrStdout(), report, reportWidth, reportColor); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
