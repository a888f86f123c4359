package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"

	"github.com/verte-zerg/taper/internal/progress"
)

//go:embed templates/*.html
var templateFS embed.FS

const dashboardTemplate = "dashboard.html"

var indicatorColors = map[progress.Indicator]string{
	progress.IndicatorGray:   "#9ca3af",
	progress.IndicatorGreen:  "#22c55e",
	progress.IndicatorOrange: "#f97316",
	progress.IndicatorRed:    "#ef4444",
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"json": func(v any) template.JS {
			b, _ := json.Marshal(v)
			return template.JS(b)
		},
		"indicatorColor": func(i progress.Indicator) template.CSS {
			c, ok := indicatorColors[i]
			if !ok {
				c = indicatorColors[progress.IndicatorGray]
			}
			return template.CSS(c)
		},
		"num": func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
		"optNum": func(p *float64) string {
			if p == nil {
				return "–"
			}
			return strconv.FormatFloat(*p, 'f', -1, 64)
		},
		"signed": func(p *float64) string {
			if p == nil {
				return ""
			}
			return fmt.Sprintf("%+.1f", *p)
		},
	}
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New(dashboardTemplate).Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

func dashboardTitle(planDays int) string {
	if planDays > 0 && planDays%7 == 0 {
		return fmt.Sprintf("%d-Week Visceral Fat & Beer-Taper Tracker", planDays/7)
	}
	return fmt.Sprintf("%d-Day Visceral Fat & Beer-Taper Tracker", planDays)
}
