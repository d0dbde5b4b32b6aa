package formatting

import (
	"encoding/json"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

func (f *JSONFormatter) FormatSetups(setups []SetupInfo) error {
	if setups == nil {
		setups = []SetupInfo{}
	}
	return f.write(setups)
}

func (f *JSONFormatter) FormatHistory(component string, entries []HistoryEntry) error {
	return f.write(historyDoc(component, entries))
}

func (f *JSONFormatter) FormatSnapshots(snapshots []Snapshot) error {
	return f.write(snapshotDocs(snapshots))
}

func (f *JSONFormatter) write(v any) error {
	enc := json.NewEncoder(f.options.Output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
