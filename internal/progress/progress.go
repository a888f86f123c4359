// Package progress implements the adherence heuristics behind the dashboard.
package progress

import (
	"math"
	"time"

	"github.com/verte-zerg/taper/internal/model"
)

const (
	summaryWindowDays = 7
	visceralThreshold = 25.0
	shortSleepHours   = 6.0
	onTrackFloor      = -5.0
	slightlyFloor     = -15.0
)

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WeeklySummary averages the entries logged in the seven days ending today.
func WeeklySummary(log model.Log, today time.Time, trackWater bool) model.WeeklySummary {
	var summary model.WeeklySummary
	var beers, walk, meals, sleep, water float64
	waterDays := 0
	for i := 0; i < summaryWindowDays; i++ {
		e, ok := log[model.DateKey(today.AddDate(0, 0, -i))]
		if !ok {
			continue
		}
		summary.Days++
		beers += float64(e.Beers)
		walk += e.WalkKm
		meals += float64(e.Meals)
		sleep += e.SleepH
		if e.WaterL != nil {
			water += *e.WaterL
			waterDays++
		}
	}
	if summary.Days == 0 {
		return model.WeeklySummary{}
	}
	n := float64(summary.Days)
	summary.Beers = Round1(beers / n)
	summary.WalkKm = Round1(walk / n)
	summary.Meals = Round1(meals / n)
	summary.SleepH = Round1(sleep / n)
	if trackWater && waterDays > 0 {
		summary.WaterL = model.Float64(Round1(water / float64(waterDays)))
	}
	return summary
}

// PlanStart anchors the baseline at the earliest logged date, or today when
// the log is empty.
func PlanStart(log model.Log, today time.Time) time.Time {
	dates := log.Dates()
	if len(dates) == 0 {
		return today
	}
	start, err := model.ParseDate(dates[0])
	if err != nil {
		return today
	}
	return start
}

// BaselineProjection is a straight-line plan from 0 at start to 100 at
// start+days-1.
func BaselineProjection(start time.Time, days int) model.Curve {
	curve := model.Curve{}
	if days <= 0 {
		return curve
	}
	if days == 1 {
		curve[model.DateKey(start)] = 100
		return curve
	}
	step := 100 / float64(days-1)
	for i := 0; i < days; i++ {
		curve[model.DateKey(start.AddDate(0, 0, i))] = float64(i) * step
	}
	return curve
}

// DailyDelta scores one day's entry against the targets.
func DailyDelta(e model.DailyEntry, t model.Targets) float64 {
	var delta float64

	switch {
	case e.WalkKm >= t.WalkKm:
		delta += 0.6
	case e.WalkKm >= t.WalkKm/2:
		delta += 0.3
	default:
		delta -= 0.2
	}

	if e.Beers <= t.Beers {
		delta += 0.6
	} else {
		delta -= 0.3 * float64(e.Beers-t.Beers)
	}

	switch {
	case e.SleepH >= t.SleepH:
		delta += 0.3
	case e.SleepH < shortSleepHours:
		delta -= 0.2
	}
	return delta
}

// PredictionCurve folds daily deltas oldest-first into a clamped cumulative
// score. Only logged dates appear in the result.
func PredictionCurve(log model.Log, t model.Targets) model.Curve {
	curve := make(model.Curve, len(log))
	score := 0.0
	for _, d := range log.Dates() {
		score = clamp(score+DailyDelta(log[d], t), 0, 100)
		curve[d] = Round1(score)
	}
	return curve
}

// VisceralCurve maps progress to the visceral burn phase: flat up to the
// threshold, then a linear ramp to 100.
func VisceralCurve(prediction model.Curve) model.Curve {
	curve := make(model.Curve, len(prediction))
	for d, p := range prediction {
		curve[d] = VisceralValue(p)
	}
	return curve
}

// VisceralValue converts one progress value.
func VisceralValue(p float64) float64 {
	if p <= visceralThreshold {
		return 0
	}
	return Round1(clamp((p-visceralThreshold)/(100-visceralThreshold)*100, 0, 100))
}

// ComputeDeviation returns the mean gap between prediction and baseline over
// their shared dates. ok is false when the curves share no dates.
func ComputeDeviation(prediction, baseline model.Curve) (deviation float64, ok bool) {
	var sum float64
	n := 0
	for _, d := range prediction.Dates() {
		b, found := baseline[d]
		if !found {
			continue
		}
		sum += prediction[d] - b
		n++
	}
	if n == 0 {
		return 0, false
	}
	return Round1(sum / float64(n)), true
}

// Classify buckets a deviation. Band floors are inclusive.
func Classify(deviation float64, ok bool) model.Status {
	switch {
	case !ok:
		return model.StatusNoData
	case deviation >= onTrackFloor:
		return model.StatusOnTrack
	case deviation >= slightlyFloor:
		return model.StatusSlightlyBehind
	default:
		return model.StatusOffTrack
	}
}
