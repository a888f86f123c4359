package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/verte-zerg/taper/internal/model"
)

// ErrInvalidInput marks a submission that was rejected before touching the store.
var ErrInvalidInput = errors.New("invalid input")

const maxBodyBytes = 1 << 16

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// parseEntryForm reads a log submission from form values.
func parseEntryForm(values url.Values, trackWater bool) (model.DailyEntry, error) {
	raw := make(map[string]string, len(values))
	for _, key := range []string{model.FieldBeers, model.FieldWalk, model.FieldMeals, model.FieldWater, model.FieldSleep} {
		raw[key] = values.Get(key)
	}
	entry, err := model.ParseEntry(raw, trackWater)
	if err != nil {
		return model.DailyEntry{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return entry, nil
}

type entryRequest struct {
	Beers  *int     `json:"beers"`
	WalkKm *float64 `json:"walk_km"`
	Meals  *int     `json:"meals"`
	WaterL *float64 `json:"water_l"`
	SleepH *float64 `json:"sleep_h"`
}

// parseEntryJSON reads a log submission from a JSON body.
func parseEntryJSON(r io.Reader, trackWater bool) (model.DailyEntry, error) {
	var req entryRequest
	dec := json.NewDecoder(io.LimitReader(r, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return model.DailyEntry{}, invalid("malformed body: %v", err)
	}
	switch {
	case req.Beers == nil:
		return model.DailyEntry{}, invalid("beers is required")
	case req.WalkKm == nil:
		return model.DailyEntry{}, invalid("walk_km is required")
	case req.Meals == nil:
		return model.DailyEntry{}, invalid("meals is required")
	case req.SleepH == nil:
		return model.DailyEntry{}, invalid("sleep_h is required")
	}
	entry := model.DailyEntry{
		Beers:  *req.Beers,
		WalkKm: *req.WalkKm,
		Meals:  *req.Meals,
		WaterL: req.WaterL,
		SleepH: *req.SleepH,
	}
	return validated(entry, trackWater)
}

func validated(entry model.DailyEntry, trackWater bool) (model.DailyEntry, error) {
	if err := entry.Validate(trackWater); err != nil {
		return model.DailyEntry{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return entry, nil
}
