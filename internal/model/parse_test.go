package model

import (
	"errors"
	"testing"
)

func TestParseEntry(t *testing.T) {
	values := map[string]string{
		FieldBeers: "3",
		FieldWalk:  " 7.5 ",
		FieldMeals: "2",
		FieldSleep: "6.5",
	}
	entry, err := ParseEntry(values, false)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if entry.Beers != 3 || entry.WalkKm != 7.5 || entry.Meals != 2 || entry.SleepH != 6.5 || entry.WaterL != nil {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if _, err := ParseEntry(values, true); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected missing water error, got %v", err)
	}

	values[FieldWater] = "1.5"
	entry, err = ParseEntry(values, false)
	if err != nil {
		t.Fatalf("parse with water: %v", err)
	}
	if entry.WaterL == nil || *entry.WaterL != 1.5 {
		t.Fatalf("expected optional water to be kept, got %+v", entry)
	}
}

func TestParseEntryRejectsBadValues(t *testing.T) {
	base := map[string]string{
		FieldBeers: "1",
		FieldWalk:  "5",
		FieldMeals: "2",
		FieldWater: "2",
		FieldSleep: "7",
	}
	cases := map[string][2]string{
		"missing beers":  {FieldBeers, ""},
		"fractional":     {FieldMeals, "1.5"},
		"too many meals": {FieldMeals, "5"},
		"negative walk":  {FieldWalk, "-1"},
		"not a number":   {FieldSleep, "x"},
		"nan":            {FieldWater, "NaN"},
		"inf":            {FieldWalk, "+Inf"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			values := make(map[string]string, len(base))
			for k, v := range base {
				values[k] = v
			}
			values[tc[0]] = tc[1]
			if _, err := ParseEntry(values, true); !errors.Is(err, ErrInvalidEntry) {
				t.Fatalf("expected invalid entry, got %v", err)
			}
		})
	}
}
