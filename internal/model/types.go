// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// DateLayout is the ISO calendar date format used for log keys.
const DateLayout = "2006-01-02"

// ErrInvalidEntry is returned when an entry violates field ranges.
var ErrInvalidEntry = errors.New("invalid entry")

// MaxMeals is the upper bound for meals per day.
const MaxMeals = 3

// DailyEntry is one day's record.
type DailyEntry struct {
	Beers  int      `json:"beers" yaml:"beers"`
	WalkKm float64  `json:"walk_km" yaml:"walk_km"`
	Meals  int      `json:"meals" yaml:"meals"`
	WaterL *float64 `json:"water_l,omitempty" yaml:"water_l,omitempty"`
	SleepH float64  `json:"sleep_h" yaml:"sleep_h"`
}

// Validate checks field ranges. Water is required only when trackWater is set.
func (e DailyEntry) Validate(trackWater bool) error {
	if e.Beers < 0 {
		return fmt.Errorf("%w: beers must be >= 0", ErrInvalidEntry)
	}
	if e.WalkKm < 0 {
		return fmt.Errorf("%w: walk_km must be >= 0", ErrInvalidEntry)
	}
	if e.Meals < 0 || e.Meals > MaxMeals {
		return fmt.Errorf("%w: meals must be between 0 and %d", ErrInvalidEntry, MaxMeals)
	}
	if e.SleepH < 0 {
		return fmt.Errorf("%w: sleep_h must be >= 0", ErrInvalidEntry)
	}
	if trackWater {
		if e.WaterL == nil {
			return fmt.Errorf("%w: water_l is required", ErrInvalidEntry)
		}
		if *e.WaterL < 0 {
			return fmt.Errorf("%w: water_l must be >= 0", ErrInvalidEntry)
		}
	}
	return nil
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 {
	return &v
}

// Log maps ISO dates to entries.
type Log map[string]DailyEntry

// DatedEntry pairs an entry with its date key.
type DatedEntry struct {
	Date  string     `json:"date"`
	Entry DailyEntry `json:"entry"`
}

// Dates returns the log's date keys in ascending order.
func (l Log) Dates() []string {
	dates := make([]string, 0, len(l))
	for d := range l {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Sorted returns entries ordered by date, newest first when desc is true.
func (l Log) Sorted(desc bool) []DatedEntry {
	dates := l.Dates()
	out := make([]DatedEntry, 0, len(dates))
	for _, d := range dates {
		out = append(out, DatedEntry{Date: d, Entry: l[d]})
	}
	if desc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Clone returns a shallow copy of the log.
func (l Log) Clone() Log {
	out := make(Log, len(l))
	for d, e := range l {
		out[d] = e
	}
	return out
}

// DateKey formats t as a log key in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a log key as a local calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// Targets holds the daily goals used by the heuristics and indicators.
type Targets struct {
	Beers    int
	WalkKm   float64
	SleepH   float64
	WaterL   float64
	PlanDays int
}

// DefaultTargets returns the stock four-week plan goals.
func DefaultTargets() Targets {
	return Targets{
		Beers:    4,
		WalkKm:   10,
		SleepH:   7,
		WaterL:   2.5,
		PlanDays: 28,
	}
}

// Features toggles the optional parts of the schema and dashboard.
type Features struct {
	TrackWater bool
	ShowCurves bool
}

// DefaultFeatures enables every optional field and curve.
func DefaultFeatures() Features {
	return Features{TrackWater: true, ShowCurves: true}
}

// Options bundles everything the report builder needs besides the log.
type Options struct {
	Targets  Targets
	Features Features
}

// DefaultOptions returns default targets and features.
func DefaultOptions() Options {
	return Options{Targets: DefaultTargets(), Features: DefaultFeatures()}
}

// Curve maps ISO dates to a percentage in [0,100].
type Curve map[string]float64

// Dates returns the curve's dates in ascending order.
func (c Curve) Dates() []string {
	dates := make([]string, 0, len(c))
	for d := range c {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// WeeklySummary holds trailing seven-day averages. Days is zero when no
// entries fall inside the window.
type WeeklySummary struct {
	Days   int      `json:"days"`
	Beers  float64  `json:"avg_beers"`
	WalkKm float64  `json:"avg_walk"`
	Meals  float64  `json:"avg_meals"`
	SleepH float64  `json:"avg_sleep"`
	WaterL *float64 `json:"avg_water,omitempty"`
}

// Empty reports whether the window had no entries.
func (s WeeklySummary) Empty() bool {
	return s.Days == 0
}

// Status classifies the deviation between progress and plan.
type Status string

// Deviation bands, ordered best to worst.
const (
	StatusNoData         Status = "no_data"
	StatusOnTrack        Status = "on_track"
	StatusSlightlyBehind Status = "slightly_behind"
	StatusOffTrack       Status = "off_track"
)

// Message returns the dashboard text for the status.
func (s Status) Message() string {
	switch s {
	case StatusOnTrack:
		return "On track with the plan."
	case StatusSlightlyBehind:
		return "Slightly behind the plan."
	case StatusOffTrack:
		return "Off track: progress is well below the plan."
	default:
		return "Not enough data to compare against the plan yet."
	}
}
