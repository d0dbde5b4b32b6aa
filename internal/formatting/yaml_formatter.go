package formatting

import (
	"gopkg.in/yaml.v3"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

func (f *YAMLFormatter) FormatSetups(setups []SetupInfo) error {
	list := make([]map[string]any, 0, len(setups))
	for _, s := range setups {
		list = append(list, map[string]any{"name": s.Name, "path": s.Path, "selected": s.Selected})
	}
	return f.write(list)
}

func (f *YAMLFormatter) FormatHistory(component string, entries []HistoryEntry) error {
	return f.write(historyDoc(component, entries))
}

func (f *YAMLFormatter) FormatSnapshots(snapshots []Snapshot) error {
	return f.write(snapshotDocs(snapshots))
}

func (f *YAMLFormatter) write(v any) error {
	enc := yaml.NewEncoder(f.options.Output)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
