package stats

import (
	"testing"

	"github.com/verte-zerg/taper/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	entries := []model.DatedEntry{
		{Date: "2024-01-02", Entry: model.DailyEntry{Beers: 1, WalkKm: 6.5, Meals: 3, SleepH: 7.5}},
		{Date: "2024-01-01", Entry: model.DailyEntry{Beers: 2, WalkKm: 10, Meals: 2, SleepH: 8}},
	}
	headers, rows := HistoryRows(entries, false)
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Date       Beers Walk Meals Sleep" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "2024-01-02     1  6.5     3   7.5" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "2024-01-01     2   10     2     8" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestHistoryRowsWithWater(t *testing.T) {
	entries := []model.DatedEntry{
		{Date: "2024-01-02", Entry: model.DailyEntry{Beers: 1, WaterL: model.Float64(2.25)}},
		{Date: "2024-01-01", Entry: model.DailyEntry{Beers: 2}},
	}
	headers, rows := HistoryRows(entries, true)
	if len(headers) != 6 || headers[4] != "Water" {
		t.Fatalf("unexpected headers: %v", headers)
	}
	if rows[0][4] != "2.25" || rows[1][4] != "–" {
		t.Fatalf("unexpected water cells: %q %q", rows[0][4], rows[1][4])
	}
}
