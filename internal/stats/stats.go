// Package stats contains report building and text rendering.
package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/taper/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// FillForward turns a gappy series into a plottable one by holding the last
// known value. Leading gaps become zero.
func FillForward(values []*float64) []float64 {
	out := make([]float64, len(values))
	last := 0.0
	for i, v := range values {
		if v != nil {
			last = *v
		}
		out[i] = last
	}
	return out
}

func formatOneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSummary prints the weekly summary cards and the plan status.
func RenderSummary(w io.Writer, report Report) error {
	if _, err := fmt.Fprintf(w, "Weekly summary (7 days to %s)\n", report.Today); err != nil {
		return err
	}
	if report.Summary.Empty() {
		if _, err := fmt.Fprintln(w, "No entries in the last 7 days."); err != nil {
			return err
		}
	}
	for _, c := range report.Cards {
		if _, err := fmt.Fprintf(w, "%-15s %5s  [%s]\n", c.Label+":", c.Display(), c.Indicator); err != nil {
			return err
		}
	}
	if !report.Summary.Empty() {
		if _, err := fmt.Fprintf(w, "%-15s %5s\n", "Avg Meals:", formatOneDecimal(report.Summary.Meals)); err != nil {
			return err
		}
	}
	if report.Options.Features.ShowCurves {
		line := report.StatusMessage()
		if report.Deviation != nil {
			line = fmt.Sprintf("%s (deviation %+.1f)", line, *report.Deviation)
		}
		if _, err := fmt.Fprintf(w, "Plan: %s\n", line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// HistoryRows formats entries as table cells, newest first.
func HistoryRows(entries []model.DatedEntry, trackWater bool) (headers []string, rows [][]string) {
	headers = []string{"Date", "Beers", "Walk", "Meals"}
	if trackWater {
		headers = append(headers, "Water")
	}
	headers = append(headers, "Sleep")
	rows = make([][]string, 0, len(entries))
	for _, de := range entries {
		e := de.Entry
		row := []string{
			de.Date,
			strconv.Itoa(e.Beers),
			formatNumber(e.WalkKm),
			strconv.Itoa(e.Meals),
		}
		if trackWater {
			water := "–"
			if e.WaterL != nil {
				water = formatNumber(*e.WaterL)
			}
			row = append(row, water)
		}
		row = append(row, formatNumber(e.SleepH))
		rows = append(rows, row)
	}
	return headers, rows
}

// RenderHistory prints the history table.
func RenderHistory(w io.Writer, entries []model.DatedEntry, trackWater bool) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No entries logged yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "History"); err != nil {
		return err
	}
	headers, rows := HistoryRows(entries, trackWater)
	rightAlign := map[int]bool{}
	for i := 1; i < len(headers); i++ {
		rightAlign[i] = true
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderHabits plots the recent habit series.
func RenderHabits(w io.Writer, report Report, totalWidth, height int, useColor bool) error {
	h := report.Habits
	if len(h.Labels) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, fmt.Sprintf("Habits (%s to %s)", h.Labels[0], h.Labels[len(h.Labels)-1]), []Series{
		{Name: "Beers", Values: h.Beers},
		{Name: "Walk km (3-day avg)", Values: MovingAverage(h.Walk, 3)},
		{Name: "Sleep h", Values: h.Sleep},
	}, width, height, useColor)
}

// RenderProgress plots baseline, prediction and visceral curves on a fixed
// 0-100 scale.
func RenderProgress(w io.Writer, report Report, totalWidth, height int, useColor bool) error {
	p := report.Progress
	if !report.Options.Features.ShowCurves || len(p.Labels) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotPercentSeries(w, fmt.Sprintf("Progress vs plan (%s to %s)", p.Labels[0], p.Labels[len(p.Labels)-1]), []Series{
		{Name: "Plan", Values: FillForward(p.Baseline)},
		{Name: "Progress", Values: FillForward(p.Prediction)},
		{Name: "Visceral burn", Values: FillForward(p.Visceral)},
	}, width, height, useColor)
}

// RenderText writes the complete plain-text report.
func RenderText(w io.Writer, report Report, totalWidth int, useColor bool) error {
	if err := RenderSummary(w, report); err != nil {
		return err
	}
	if err := RenderHistory(w, report.Entries, report.Options.Features.TrackWater); err != nil {
		return err
	}
	if err := RenderHabits(w, report, totalWidth, defaultPlotHeight, useColor); err != nil {
		return err
	}
	return RenderProgress(w, report, totalWidth, defaultPlotHeight, useColor)
}
