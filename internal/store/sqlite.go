package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/verte-zerg/taper/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteStore keeps the log in an entries table keyed by date.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the SQLite database and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			date TEXT PRIMARY KEY,
			beers INTEGER NOT NULL,
			walk_km REAL NOT NULL,
			meals INTEGER NOT NULL,
			water_l REAL,
			sleep_h REAL NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Load returns every stored entry.
func (s *SQLiteStore) Load(ctx context.Context) (model.Log, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, beers, walk_km, meals, water_l, sleep_h FROM entries ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	log := model.Log{}
	for rows.Next() {
		var (
			date  string
			entry model.DailyEntry
			water sql.NullFloat64
		)
		if err := rows.Scan(&date, &entry.Beers, &entry.WalkKm, &entry.Meals, &water, &entry.SleepH); err != nil {
			return nil, err
		}
		if water.Valid {
			entry.WaterL = model.Float64(water.Float64)
		}
		log[date] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return log, nil
}

// Save replaces the stored log in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, log model.Log) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return err
	}
	if len(log) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO entries (date, beers, walk_km, meals, water_l, sleep_h)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, de := range log.Sorted(false) {
			var water sql.NullFloat64
			if de.Entry.WaterL != nil {
				water = sql.NullFloat64{Float64: *de.Entry.WaterL, Valid: true}
			}
			if _, err = stmt.ExecContext(ctx, de.Date, de.Entry.Beers, de.Entry.WalkKm, de.Entry.Meals, water, de.Entry.SleepH); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}
