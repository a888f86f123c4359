package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/verte-zerg/taper/internal/model"
)

// JSONStore keeps the log in a single indented JSON file.
type JSONStore struct {
	path string
}

// OpenJSON returns a store backed by the JSON file at path. The file is
// created on first Save.
func OpenJSON(path string) (*JSONStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	return &JSONStore{path: path}, nil
}

// Load reads the log. A missing, empty, or malformed file yields an empty log.
func (s *JSONStore) Load(ctx context.Context) (model.Log, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return model.Log{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	log, err := DecodeJSON(bytes.NewReader(data))
	if err != nil {
		storeLogger().WarnContext(ctx, "discarding unreadable log file",
			"operation", "load_log",
			"outcome", "recovered",
			"path", s.path,
			"error", err.Error(),
		)
		return model.Log{}, nil
	}
	return log, nil
}

// Save rewrites the whole file through a temp file and rename.
func (s *JSONStore) Save(_ context.Context, log model.Log) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, log, FormatJSON); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "progress-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp log: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write log: %w", err)
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmpFile.Chmod(mode); err != nil {
		return fmt.Errorf("failed to set log mode: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close log: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to write log: %w", err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *JSONStore) Close() error {
	return nil
}

// DecodeJSON parses the persisted layout: a mapping from ISO date to entry.
// Keys that are not valid dates are rejected.
func DecodeJSON(r io.Reader) (model.Log, error) {
	var log model.Log
	dec := json.NewDecoder(r)
	if err := dec.Decode(&log); err != nil {
		return nil, fmt.Errorf("decode log: %w", err)
	}
	if log == nil {
		return model.Log{}, nil
	}
	for d := range log {
		if _, err := model.ParseDate(d); err != nil {
			return nil, fmt.Errorf("decode log: invalid date key %q", d)
		}
	}
	return log, nil
}
