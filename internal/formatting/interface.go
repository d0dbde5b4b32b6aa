// Package formatting renders setups, calibration history and snapshots for
// the CLI as tables, JSON or YAML.
package formatting

import (
	"fmt"
	"io"
	"os"

	"calman/internal/value"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
	FormatTable OutputFormat = "table" // Rich table output
)

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	// Output receives the rendered text; nil means stdout.
	Output io.Writer
	// Color enables ANSI colors in table output.
	Color bool
}

// SetupInfo describes one setup of the storage location.
type SetupInfo struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Selected bool   `json:"selected"`
}

// HistoryEntry describes one calibration directory.
type HistoryEntry struct {
	Timestamp int64  `json:"timestamp"`
	Dir       string `json:"dir"`
	Latest    bool   `json:"latest"`
}

// Snapshot is a loaded document of one component.
type Snapshot struct {
	Component string
	// Kind is "cfg" or "cal".
	Kind   string
	Dir    string
	Values *value.Mapping
}

// Formatter renders calman data.
type Formatter interface {
	FormatSetups(setups []SetupInfo) error
	FormatHistory(component string, entries []HistoryEntry) error
	FormatSnapshots(snapshots []Snapshot) error
}

// NewFormatter returns the formatter for options.Format.
func NewFormatter(options Options) (Formatter, error) {
	if options.Output == nil {
		options.Output = os.Stdout
	}
	switch options.Format {
	case FormatTable, "":
		return &TableFormatter{options: options}, nil
	case FormatJSON:
		return &JSONFormatter{options: options}, nil
	case FormatYAML:
		return &YAMLFormatter{options: options}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", options.Format)
	}
}
