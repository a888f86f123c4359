package progress

import (
	"testing"
	"time"

	"github.com/verte-zerg/taper/internal/model"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func perfect() model.DailyEntry {
	return model.DailyEntry{Beers: 2, WalkKm: 10, Meals: 2, SleepH: 8}
}

func TestWeeklySummaryEmptyWindow(t *testing.T) {
	log := model.Log{
		"2024-01-01": perfect(),
	}
	summary := WeeklySummary(log, day(t, "2024-01-08"), true)
	if !summary.Empty() {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
	if summary.WaterL != nil {
		t.Fatalf("expected no water average")
	}
}

func TestWeeklySummaryAveragesWindowOnly(t *testing.T) {
	log := model.Log{
		"2024-01-01": {Beers: 10, WalkKm: 0, Meals: 3, SleepH: 4},
		"2024-01-02": {Beers: 1, WalkKm: 5, Meals: 2, SleepH: 7, WaterL: model.Float64(2)},
		"2024-01-08": {Beers: 2, WalkKm: 8.25, Meals: 3, SleepH: 8, WaterL: model.Float64(3)},
	}
	summary := WeeklySummary(log, day(t, "2024-01-08"), true)
	if summary.Days != 2 {
		t.Fatalf("expected 2 days in window, got %d", summary.Days)
	}
	if summary.Beers != 1.5 {
		t.Fatalf("expected avg beers 1.5, got %v", summary.Beers)
	}
	if summary.WalkKm != 6.6 {
		t.Fatalf("expected avg walk 6.6, got %v", summary.WalkKm)
	}
	if summary.Meals != 2.5 || summary.SleepH != 7.5 {
		t.Fatalf("unexpected meals/sleep: %+v", summary)
	}
	if summary.WaterL == nil || *summary.WaterL != 2.5 {
		t.Fatalf("expected avg water 2.5, got %v", summary.WaterL)
	}

	noWater := WeeklySummary(log, day(t, "2024-01-08"), false)
	if noWater.WaterL != nil {
		t.Fatalf("expected water to be skipped when not tracked")
	}
}

func TestBaselineProjection(t *testing.T) {
	start := day(t, "2024-01-01")
	curve := BaselineProjection(start, 28)
	if len(curve) != 28 {
		t.Fatalf("expected 28 points, got %d", len(curve))
	}
	dates := curve.Dates()
	if dates[0] != "2024-01-01" || dates[27] != "2024-01-28" {
		t.Fatalf("unexpected date range %s..%s", dates[0], dates[27])
	}
	if curve[dates[0]] != 0 {
		t.Fatalf("expected first point 0, got %v", curve[dates[0]])
	}
	if Round1(curve[dates[27]]) != 100 {
		t.Fatalf("expected last point 100, got %v", curve[dates[27]])
	}
	for i := 1; i < len(dates); i++ {
		if curve[dates[i]] <= curve[dates[i-1]] {
			t.Fatalf("expected strictly increasing at %s", dates[i])
		}
	}
}

func TestBaselineProjectionSingleDay(t *testing.T) {
	curve := BaselineProjection(day(t, "2024-03-05"), 1)
	if len(curve) != 1 || curve["2024-03-05"] != 100 {
		t.Fatalf("expected {2024-03-05: 100}, got %v", curve)
	}
	if got := BaselineProjection(day(t, "2024-03-05"), 0); len(got) != 0 {
		t.Fatalf("expected empty curve for zero days, got %v", got)
	}
}

func TestPlanStart(t *testing.T) {
	today := day(t, "2024-02-10")
	if got := PlanStart(model.Log{}, today); !got.Equal(today) {
		t.Fatalf("expected today for empty log, got %v", got)
	}
	log := model.Log{"2024-02-03": perfect(), "2024-01-30": perfect()}
	if got := model.DateKey(PlanStart(log, today)); got != "2024-01-30" {
		t.Fatalf("expected earliest date, got %s", got)
	}
}

func TestPredictionCurveSingleDay(t *testing.T) {
	log := model.Log{"2024-01-01": perfect()}
	pred := PredictionCurve(log, model.DefaultTargets())
	if pred["2024-01-01"] != 1.5 {
		t.Fatalf("expected 1.5, got %v", pred["2024-01-01"])
	}
	visc := VisceralCurve(pred)
	if visc["2024-01-01"] != 0 {
		t.Fatalf("expected visceral 0, got %v", visc["2024-01-01"])
	}
}

func TestPredictionCurveAccumulates(t *testing.T) {
	log := model.Log{
		"2024-01-02": perfect(),
		"2024-01-01": perfect(),
	}
	pred := PredictionCurve(log, model.DefaultTargets())
	if pred["2024-01-01"] != 1.5 || pred["2024-01-02"] != 3.0 {
		t.Fatalf("unexpected curve: %v", pred)
	}
}

func TestPredictionCurveClampsAtZero(t *testing.T) {
	bad := model.DailyEntry{Beers: 8, WalkKm: 1, Meals: 3, SleepH: 5}
	if got := Round1(DailyDelta(bad, model.DefaultTargets())); got != -1.6 {
		t.Fatalf("expected delta -1.6, got %v", got)
	}
	pred := PredictionCurve(model.Log{"2024-01-01": bad}, model.DefaultTargets())
	if pred["2024-01-01"] != 0 {
		t.Fatalf("expected clamped 0, got %v", pred["2024-01-01"])
	}
}

func TestPredictionCurveDependsOnChronology(t *testing.T) {
	bad := model.DailyEntry{Beers: 8, WalkKm: 1, Meals: 3, SleepH: 5}
	first := PredictionCurve(model.Log{
		"2024-01-01": bad,
		"2024-01-02": perfect(),
	}, model.DefaultTargets())
	second := PredictionCurve(model.Log{
		"2024-01-01": perfect(),
		"2024-01-02": bad,
	}, model.DefaultTargets())
	if first["2024-01-02"] != 1.5 {
		t.Fatalf("expected 1.5 after a clamped bad day, got %v", first["2024-01-02"])
	}
	if second["2024-01-02"] != 0 {
		t.Fatalf("expected 0 after bad day following 1.5, got %v", second["2024-01-02"])
	}
}

func TestPredictionCurveIsIdempotentAndBounded(t *testing.T) {
	log := model.Log{}
	start := day(t, "2024-01-01")
	for i := 0; i < 400; i++ {
		log[model.DateKey(start.AddDate(0, 0, i))] = perfect()
	}
	a := PredictionCurve(log, model.DefaultTargets())
	b := PredictionCurve(log.Clone(), model.DefaultTargets())
	for d, v := range a {
		if v < 0 || v > 100 {
			t.Fatalf("score out of range at %s: %v", d, v)
		}
		if b[d] != v {
			t.Fatalf("expected identical output at %s: %v vs %v", d, v, b[d])
		}
	}
	last := model.DateKey(start.AddDate(0, 0, 399))
	if a[last] != 100 {
		t.Fatalf("expected score to saturate at 100, got %v", a[last])
	}
}

func TestDailyDeltaBands(t *testing.T) {
	targets := model.DefaultTargets()
	cases := []struct {
		name  string
		entry model.DailyEntry
		want  float64
	}{
		{"half walk, mid sleep", model.DailyEntry{Beers: 4, WalkKm: 5, SleepH: 6.5}, 0.9},
		{"short walk, one over", model.DailyEntry{Beers: 5, WalkKm: 4.9, SleepH: 7}, -0.2},
		{"all missed", model.DailyEntry{Beers: 6, WalkKm: 0, SleepH: 3}, -1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Round1(DailyDelta(tc.entry, targets)); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestVisceralValue(t *testing.T) {
	if VisceralValue(25) != 0 || VisceralValue(10) != 0 {
		t.Fatalf("expected 0 at or below threshold")
	}
	if VisceralValue(100) != 100 {
		t.Fatalf("expected 100 at full progress, got %v", VisceralValue(100))
	}
	if VisceralValue(62.5) != 50 {
		t.Fatalf("expected 50 at midpoint, got %v", VisceralValue(62.5))
	}
	prev := VisceralValue(25)
	for p := 26.0; p <= 100; p++ {
		v := VisceralValue(p)
		if v <= prev {
			t.Fatalf("expected strictly increasing at %v", p)
		}
		prev = v
	}
}

func TestComputeDeviation(t *testing.T) {
	pred := model.Curve{"2024-01-01": 1.5, "2024-01-02": 3.0}
	base := model.Curve{"2024-01-01": 0, "2024-01-02": 10, "2024-01-03": 20}
	dev, ok := ComputeDeviation(pred, base)
	if !ok {
		t.Fatalf("expected deviation to be defined")
	}
	if dev != -2.8 {
		t.Fatalf("expected -2.8, got %v", dev)
	}

	_, ok = ComputeDeviation(pred, model.Curve{"2023-12-31": 0})
	if ok {
		t.Fatalf("expected undefined deviation for disjoint curves")
	}
	_, ok = ComputeDeviation(model.Curve{}, base)
	if ok {
		t.Fatalf("expected undefined deviation for empty prediction")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		dev  float64
		ok   bool
		want model.Status
	}{
		{0, false, model.StatusNoData},
		{3, true, model.StatusOnTrack},
		{-5, true, model.StatusOnTrack},
		{-5.1, true, model.StatusSlightlyBehind},
		{-15, true, model.StatusSlightlyBehind},
		{-15.1, true, model.StatusOffTrack},
	}
	for _, tc := range cases {
		if got := Classify(tc.dev, tc.ok); got != tc.want {
			t.Fatalf("Classify(%v, %v) = %s, want %s", tc.dev, tc.ok, got, tc.want)
		}
	}
}

func TestIndicatorFor(t *testing.T) {
	if got := IndicatorFor(0, true, 4, true); got != IndicatorGray {
		t.Fatalf("expected gray for zero, got %s", got)
	}
	if got := IndicatorFor(3, false, 4, true); got != IndicatorGray {
		t.Fatalf("expected gray when absent, got %s", got)
	}
	if got := IndicatorFor(5, true, 4, true); got != IndicatorRed {
		t.Fatalf("expected red over beer target, got %s", got)
	}
	if got := IndicatorFor(4, true, 4, true); got != IndicatorGreen {
		t.Fatalf("expected green at beer target, got %s", got)
	}
	if got := IndicatorFor(9.9, true, 10, false); got != IndicatorOrange {
		t.Fatalf("expected orange under walk target, got %s", got)
	}
	if got := IndicatorFor(10, true, 10, false); got != IndicatorGreen {
		t.Fatalf("expected green at walk target, got %s", got)
	}
}
