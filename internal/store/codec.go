package store

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/taper/internal/model"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode writes log in the given format. JSON output uses two-space indent
// and sorted date keys, matching the persisted file layout.
func Encode(w io.Writer, log model.Log, format string) error {
	if log == nil {
		log = model.Log{}
	}
	switch strings.ToLower(format) {
	case "", FormatJSON:
		data, err := json.MarshalIndent(log, "", "  ")
		if err != nil {
			return fmt.Errorf("encode log: %w", err)
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write log: %w", err)
		}
		return nil
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]model.DailyEntry(log)); err != nil {
			return fmt.Errorf("encode log: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode log: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", format, FormatJSON, FormatYAML)
	}
}
