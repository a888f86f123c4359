// Package store handles persistence of the daily log.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/verte-zerg/taper/internal/model"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Store loads and saves the whole log. Implementations read the full log on
// every Load and rewrite it on every Save.
type Store interface {
	Load(ctx context.Context) (model.Log, error)
	Save(ctx context.Context, log model.Log) error
	Close() error
}

// NormalizeBackend folds a backend name to its canonical lower-case form.
func NormalizeBackend(backend string) string {
	return strings.ToLower(strings.TrimSpace(backend))
}

// Open returns the store for backend at path.
func Open(backend, path string) (Store, error) {
	switch NormalizeBackend(backend) {
	case "", BackendJSON:
		return OpenJSON(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q (want %s or %s)", backend, BackendJSON, BackendSQLite)
	}
}

// Record upserts the entry for date. An existing entry for the same date is
// replaced.
func Record(ctx context.Context, st Store, date string, entry model.DailyEntry) error {
	log, err := st.Load(ctx)
	if err != nil {
		return fmt.Errorf("load log: %w", err)
	}
	log[date] = entry
	if err := st.Save(ctx, log); err != nil {
		return fmt.Errorf("save log: %w", err)
	}
	storeLogger().DebugContext(ctx, "entry recorded",
		"operation", "record_entry",
		"outcome", "success",
		"date", date,
		"entries", len(log),
	)
	return nil
}

func storeLogger() *slog.Logger {
	return slog.Default().With("module", "store")
}
