package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/taper/internal/model"
	"github.com/verte-zerg/taper/internal/progress"
	"github.com/verte-zerg/taper/internal/store"
)

func mustDate(t *testing.T, s string) model.DatedEntry {
	t.Helper()
	if _, err := model.ParseDate(s); err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return model.DatedEntry{Date: s}
}

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(store.BackendSQLite, filepath.Join(dir, "taper.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		entry := model.DailyEntry{Beers: 2, WalkKm: 10, Meals: 2, SleepH: 8, WaterL: model.Float64(3)}
		if err := store.Record(ctx, st, mustDate(t, d).Date, entry); err != nil {
			t.Fatalf("record %s: %v", d, err)
		}
	}

	today, _ := model.ParseDate("2024-01-03")
	report, err := BuildReport(ctx, st, model.DefaultOptions(), today)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Entries) != 3 || report.Entries[0].Date != "2024-01-03" {
		t.Fatalf("expected entries newest first, got %+v", report.Entries)
	}
	if report.Summary.Days != 3 {
		t.Fatalf("expected 3 days in summary, got %d", report.Summary.Days)
	}
	if len(report.Cards) != 4 {
		t.Fatalf("expected 4 cards with water tracked, got %d", len(report.Cards))
	}
	if report.Cards[0].Indicator != progress.IndicatorGreen {
		t.Fatalf("expected green beer indicator, got %s", report.Cards[0].Indicator)
	}
	if report.Prediction["2024-01-03"] != 4.5 {
		t.Fatalf("expected prediction 4.5, got %v", report.Prediction["2024-01-03"])
	}
	if len(report.Baseline) != 28 {
		t.Fatalf("expected 28 baseline points, got %d", len(report.Baseline))
	}
	if report.Deviation == nil {
		t.Fatalf("expected a deviation")
	}
	if report.Status != model.StatusOnTrack {
		t.Fatalf("expected on track, got %s (deviation %v)", report.Status, *report.Deviation)
	}
	if len(report.Progress.Labels) != 28 || report.Progress.Prediction[3] != nil {
		t.Fatalf("expected 28 aligned labels with gaps after day 3")
	}
}

func TestComputeEmptyLog(t *testing.T) {
	today, _ := model.ParseDate("2024-05-01")
	report := Compute(model.Log{}, model.DefaultOptions(), today)
	if !report.Summary.Empty() {
		t.Fatalf("expected empty summary")
	}
	for _, c := range report.Cards {
		if c.Display() != "–" || c.Indicator != progress.IndicatorGray {
			t.Fatalf("expected placeholder card, got %+v", c)
		}
	}
	if report.Status != model.StatusNoData || report.Deviation != nil {
		t.Fatalf("expected no data status, got %s", report.Status)
	}
	if report.Baseline["2024-05-01"] != 0 {
		t.Fatalf("expected baseline anchored at today")
	}
}

func TestComputeWithoutOptionalFeatures(t *testing.T) {
	today, _ := model.ParseDate("2024-01-01")
	opts := model.DefaultOptions()
	opts.Features = model.Features{}
	report := Compute(model.Log{"2024-01-01": {Beers: 9, WalkKm: 1, SleepH: 5}}, opts, today)
	if len(report.Cards) != 3 {
		t.Fatalf("expected 3 cards without water, got %d", len(report.Cards))
	}
	if report.Cards[0].Indicator != progress.IndicatorRed {
		t.Fatalf("expected red beer indicator, got %s", report.Cards[0].Indicator)
	}
	if report.Prediction != nil || report.Baseline != nil {
		t.Fatalf("expected no curves when disabled")
	}
	if report.Habits.Water != nil {
		t.Fatalf("expected no water series when disabled")
	}
}

func TestHabitsChartKeepsLastFourteenDays(t *testing.T) {
	log := model.Log{}
	start, _ := model.ParseDate("2024-01-01")
	for i := 0; i < 20; i++ {
		log[model.DateKey(start.AddDate(0, 0, i))] = model.DailyEntry{Beers: i}
	}
	report := Compute(log, model.DefaultOptions(), start.AddDate(0, 0, 19))
	if len(report.Habits.Labels) != 14 {
		t.Fatalf("expected 14 labels, got %d", len(report.Habits.Labels))
	}
	if report.Habits.Labels[0] != "2024-01-07" || report.Habits.Beers[13] != 19 {
		t.Fatalf("unexpected window: %v", report.Habits.Labels)
	}
}

func TestRenderText(t *testing.T) {
	today, _ := model.ParseDate("2024-01-02")
	report := Compute(model.Log{
		"2024-01-01": {Beers: 2, WalkKm: 10, Meals: 2, SleepH: 8, WaterL: model.Float64(2)},
		"2024-01-02": {Beers: 5, WalkKm: 4, Meals: 3, SleepH: 6, WaterL: model.Float64(3)},
	}, model.DefaultOptions(), today)
	var buf bytes.Buffer
	if err := RenderText(&buf, report, 80, false); err != nil {
		t.Fatalf("render text: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Weekly summary", "Avg Beers:", "3.5", "History", "2024-01-02", "Plan:", "Progress vs plan"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestMovingAverageAndFillForward(t *testing.T) {
	avg := MovingAverage([]float64{2, 4, 6, 8}, 2)
	if avg[0] != 2 || avg[1] != 3 || avg[3] != 7 {
		t.Fatalf("unexpected moving average: %v", avg)
	}
	filled := FillForward([]*float64{nil, model.Float64(3), nil, model.Float64(5)})
	if filled[0] != 0 || filled[2] != 3 || filled[3] != 5 {
		t.Fatalf("unexpected fill: %v", filled)
	}
}
