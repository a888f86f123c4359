// Package stats contains report building and text rendering.
package stats

import (
	"context"
	"time"

	"github.com/verte-zerg/taper/internal/model"
	"github.com/verte-zerg/taper/internal/progress"
	"github.com/verte-zerg/taper/internal/store"
)

const habitsChartDays = 14

// Card is one weekly summary card.
type Card struct {
	Key       string             `json:"key"`
	Label     string             `json:"label"`
	Value     *float64           `json:"value"`
	Target    float64            `json:"target"`
	Indicator progress.Indicator `json:"indicator"`
}

// Display formats the card value, or a dash when there is no data.
func (c Card) Display() string {
	if c.Value == nil {
		return "–"
	}
	return formatOneDecimal(*c.Value)
}

// HabitsChart holds the raw habit series for the most recent logged days.
type HabitsChart struct {
	Labels []string   `json:"labels"`
	Beers  []float64  `json:"beers"`
	Walk   []float64  `json:"walk"`
	Sleep  []float64  `json:"sleep"`
	Water  []*float64 `json:"water,omitempty"`
}

// ProgressChart aligns the three curves on the union of their dates. Gaps
// are nil.
type ProgressChart struct {
	Labels     []string   `json:"labels"`
	Baseline   []*float64 `json:"baseline"`
	Prediction []*float64 `json:"prediction"`
	Visceral   []*float64 `json:"visceral"`
}

// Report contains precomputed data for dashboard rendering.
type Report struct {
	Today      string              `json:"today"`
	Options    model.Options       `json:"-"`
	Entries    []model.DatedEntry  `json:"entries"`
	Summary    model.WeeklySummary `json:"summary"`
	Cards      []Card              `json:"cards"`
	Habits     HabitsChart         `json:"habits"`
	Baseline   model.Curve         `json:"baseline,omitempty"`
	Prediction model.Curve         `json:"prediction,omitempty"`
	Visceral   model.Curve         `json:"visceral,omitempty"`
	Progress   ProgressChart       `json:"progress"`
	Deviation  *float64            `json:"deviation"`
	Status     model.Status        `json:"status"`
}

// StatusMessage returns the human text for the deviation status.
func (r Report) StatusMessage() string {
	return r.Status.Message()
}

// BuildReport loads the log once and prepares data for rendering.
func BuildReport(ctx context.Context, st store.Store, opts model.Options, today time.Time) (Report, error) {
	log, err := st.Load(ctx)
	if err != nil {
		return Report{}, err
	}
	return Compute(log, opts, today), nil
}

// Compute derives every dashboard value from a log snapshot.
func Compute(log model.Log, opts model.Options, today time.Time) Report {
	report := Report{
		Today:   model.DateKey(today),
		Options: opts,
		Entries: log.Sorted(true),
		Summary: progress.WeeklySummary(log, today, opts.Features.TrackWater),
		Status:  model.StatusNoData,
	}
	report.Cards = buildCards(report.Summary, opts)
	report.Habits = buildHabitsChart(log, opts.Features.TrackWater)

	if !opts.Features.ShowCurves {
		return report
	}
	start := progress.PlanStart(log, today)
	report.Baseline = progress.BaselineProjection(start, opts.Targets.PlanDays)
	report.Prediction = progress.PredictionCurve(log, opts.Targets)
	report.Visceral = progress.VisceralCurve(report.Prediction)
	report.Progress = buildProgressChart(report.Baseline, report.Prediction, report.Visceral)
	dev, ok := progress.ComputeDeviation(report.Prediction, report.Baseline)
	if ok {
		report.Deviation = model.Float64(dev)
	}
	report.Status = progress.Classify(dev, ok)
	return report
}

func buildCards(s model.WeeklySummary, opts model.Options) []Card {
	t := opts.Targets
	present := !s.Empty()
	card := func(key, label string, value, target float64, inverse bool) Card {
		c := Card{Key: key, Label: label, Target: target}
		if present {
			c.Value = model.Float64(value)
		}
		c.Indicator = progress.IndicatorFor(value, present, target, inverse)
		return c
	}
	cards := []Card{
		card("beers", "Avg Beers", s.Beers, float64(t.Beers), true),
		card("walk", "Avg Walk (km)", s.WalkKm, t.WalkKm, false),
	}
	if opts.Features.TrackWater {
		water := Card{Key: "water", Label: "Avg Water (L)", Target: t.WaterL}
		if s.WaterL != nil {
			water.Value = model.Float64(*s.WaterL)
			water.Indicator = progress.IndicatorFor(*s.WaterL, true, t.WaterL, false)
		} else {
			water.Indicator = progress.IndicatorGray
		}
		cards = append(cards, water)
	}
	cards = append(cards, card("sleep", "Avg Sleep (h)", s.SleepH, t.SleepH, false))
	return cards
}

func buildHabitsChart(log model.Log, trackWater bool) HabitsChart {
	dates := log.Dates()
	if len(dates) > habitsChartDays {
		dates = dates[len(dates)-habitsChartDays:]
	}
	chart := HabitsChart{
		Labels: dates,
		Beers:  make([]float64, len(dates)),
		Walk:   make([]float64, len(dates)),
		Sleep:  make([]float64, len(dates)),
	}
	if trackWater {
		chart.Water = make([]*float64, len(dates))
	}
	for i, d := range dates {
		e := log[d]
		chart.Beers[i] = float64(e.Beers)
		chart.Walk[i] = e.WalkKm
		chart.Sleep[i] = e.SleepH
		if trackWater && e.WaterL != nil {
			chart.Water[i] = model.Float64(*e.WaterL)
		}
	}
	return chart
}

func buildProgressChart(baseline, prediction, visceral model.Curve) ProgressChart {
	curves := []model.Curve{baseline, prediction, visceral}
	union := model.Curve{}
	for _, c := range curves {
		for d := range c {
			union[d] = 0
		}
	}
	labels := union.Dates()
	series := make([][]*float64, len(curves))
	for i, c := range curves {
		series[i] = make([]*float64, len(labels))
		for j, d := range labels {
			if v, ok := c[d]; ok {
				series[i][j] = model.Float64(progress.Round1(v))
			}
		}
	}
	return ProgressChart{
		Labels:     labels,
		Baseline:   series[0],
		Prediction: series[1],
		Visceral:   series[2],
	}
}
