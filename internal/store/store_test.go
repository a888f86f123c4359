package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/taper/internal/model"
)

func sampleLog() model.Log {
	return model.Log{
		"2024-01-02": {Beers: 1, WalkKm: 6.5, Meals: 3, WaterL: model.Float64(2.2), SleepH: 7.5},
		"2024-01-01": {Beers: 2, WalkKm: 10, Meals: 2, SleepH: 8},
	}
}

func openBoth(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	js, err := Open(BackendJSON, filepath.Join(dir, "progress.json"))
	if err != nil {
		t.Fatalf("open json store: %v", err)
	}
	sq, err := Open(BackendSQLite, filepath.Join(dir, "taper.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = js.Close()
		_ = sq.Close()
	})
	return map[string]Store{BackendJSON: js, BackendSQLite: sq}
}

func TestStoresRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range openBoth(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := st.Load(ctx)
			if err != nil {
				t.Fatalf("load empty: %v", err)
			}
			if len(empty) != 0 {
				t.Fatalf("expected empty log, got %d entries", len(empty))
			}
			if err := st.Save(ctx, sampleLog()); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := st.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("expected 2 entries, got %d", len(got))
			}
			day2 := got["2024-01-02"]
			if day2.WaterL == nil || *day2.WaterL != 2.2 {
				t.Fatalf("expected water 2.2, got %v", day2.WaterL)
			}
			if got["2024-01-01"].WaterL != nil {
				t.Fatalf("expected no water on 2024-01-01")
			}
			if day2.WalkKm != 6.5 || day2.Meals != 3 {
				t.Fatalf("unexpected entry: %+v", day2)
			}
		})
	}
}

func TestRecordOverwritesSameDay(t *testing.T) {
	ctx := context.Background()
	for name, st := range openBoth(t) {
		t.Run(name, func(t *testing.T) {
			if err := Record(ctx, st, "2024-01-05", model.DailyEntry{Beers: 6}); err != nil {
				t.Fatalf("record: %v", err)
			}
			if err := Record(ctx, st, "2024-01-05", model.DailyEntry{Beers: 1, WalkKm: 3}); err != nil {
				t.Fatalf("record again: %v", err)
			}
			if err := Record(ctx, st, "2024-01-06", model.DailyEntry{Beers: 0}); err != nil {
				t.Fatalf("record next day: %v", err)
			}
			log, err := st.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(log) != 2 {
				t.Fatalf("expected 2 entries, got %d", len(log))
			}
			if log["2024-01-05"].Beers != 1 || log["2024-01-05"].WalkKm != 3 {
				t.Fatalf("expected last write to win, got %+v", log["2024-01-05"])
			}
		})
	}
}

func TestJSONStoreRecoversFromMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	for _, content := range []string{"", "{not json", `{"yesterday": {"beers": 1}}`} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}
		st, err := OpenJSON(path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		log, err := st.Load(context.Background())
		if err != nil {
			t.Fatalf("expected silent recovery for %q, got %v", content, err)
		}
		if len(log) != 0 {
			t.Fatalf("expected empty log for %q, got %v", content, log)
		}
	}
}

func TestJSONStoreWritesIndentedLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "progress.json")
	st, err := OpenJSON(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	log := model.Log{"2024-01-01": {Beers: 2, WalkKm: 10, Meals: 2, SleepH: 8}}
	if err := st.Save(context.Background(), log); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "{\n  \"2024-01-01\": {\n    \"beers\": 2,\n    \"walk_km\": 10,\n    \"meals\": 2,\n    \"sleep_h\": 8\n  }\n}\n"
	if string(data) != want {
		t.Fatalf("unexpected file content:\n%s", data)
	}
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sampleLog(), FormatYAML); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := buf.String()
	first := strings.Index(out, "2024-01-01")
	second := strings.Index(out, "2024-01-02")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected sorted date keys in yaml output:\n%s", out)
	}
	if !strings.Contains(out, "water_l: 2.2") {
		t.Fatalf("expected water field in yaml output:\n%s", out)
	}
	if err := Encode(&buf, sampleLog(), "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestJSONStoreSaveKeepsFileMode(t *testing.T) {
	dir := t.TempDir()
	fresh, err := OpenJSON(filepath.Join(dir, "fresh.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := fresh.Save(context.Background(), sampleLog()); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "fresh.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Fatalf("expected new log to be 0644, got %o", perm)
	}

	path := filepath.Join(dir, "progress.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := os.Chmod(path, 0o640); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	st, err := OpenJSON(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Save(context.Background(), sampleLog()); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err = os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o640 {
		t.Fatalf("expected existing mode 0640 to survive save, got %o", perm)
	}
}

func TestOpenNormalizesBackend(t *testing.T) {
	st, err := Open(" SQLite ", filepath.Join(t.TempDir(), "taper.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if _, ok := st.(*SQLiteStore); !ok {
		t.Fatalf("expected sqlite store, got %T", st)
	}
}
