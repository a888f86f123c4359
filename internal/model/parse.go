package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field keys shared by the log form and the web form.
const (
	FieldBeers = "beers"
	FieldWalk  = "walk_km"
	FieldMeals = "meals"
	FieldWater = "water_l"
	FieldSleep = "sleep_h"
)

// ParseEntry converts raw field values into a validated entry. Water is
// parsed whenever a value is present and required only when trackWater is set.
func ParseEntry(values map[string]string, trackWater bool) (DailyEntry, error) {
	var entry DailyEntry
	var err error
	if entry.Beers, err = parseInt(values, FieldBeers); err != nil {
		return DailyEntry{}, err
	}
	if entry.WalkKm, err = parseFloat(values, FieldWalk); err != nil {
		return DailyEntry{}, err
	}
	if entry.Meals, err = parseInt(values, FieldMeals); err != nil {
		return DailyEntry{}, err
	}
	if entry.SleepH, err = parseFloat(values, FieldSleep); err != nil {
		return DailyEntry{}, err
	}
	if trackWater || strings.TrimSpace(values[FieldWater]) != "" {
		water, err := parseFloat(values, FieldWater)
		if err != nil {
			return DailyEntry{}, err
		}
		entry.WaterL = Float64(water)
	}
	if err := entry.Validate(trackWater); err != nil {
		return DailyEntry{}, err
	}
	return entry, nil
}

func parseInt(values map[string]string, key string) (int, error) {
	raw := strings.TrimSpace(values[key])
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidEntry, key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number", ErrInvalidEntry, key)
	}
	return v, nil
}

func parseFloat(values map[string]string, key string) (float64, error) {
	raw := strings.TrimSpace(values[key])
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidEntry, key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidEntry, key)
	}
	return v, nil
}
