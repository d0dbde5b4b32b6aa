package formatting

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"calman/internal/value"
)

// Row is one flattened leaf of a snapshot.
type Row struct {
	Key   string
	Value string
}

// FlattenMapping walks m in document order and returns one row per leaf,
// keyed by the dotted path. Arrays and tables are summarized.
func FlattenMapping(m *value.Mapping) []Row {
	var rows []Row
	flatten("", m, &rows)
	return rows
}

func flatten(prefix string, m *value.Mapping, rows *[]Row) {
	for _, e := range m.Entries() {
		key := e.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		if sub, ok := e.Value.(*value.Mapping); ok {
			flatten(key, sub, rows)
			continue
		}
		*rows = append(*rows, Row{Key: key, Value: Summary(e.Value)})
	}
}

// Summary renders a single value on one line.
func Summary(v value.Value) string {
	switch t := v.(type) {
	case nil, value.Null:
		return "null"
	case value.Scalar:
		return t.String()
	case value.Bool:
		return strconv.FormatBool(bool(t))
	case value.Text:
		return string(t)
	case value.Array:
		dims := make([]string, len(t.Shape))
		for i, d := range t.Shape {
			dims[i] = strconv.Itoa(d)
		}
		if len(t.Data) <= 6 {
			return fmt.Sprintf("array[%s] %v", strings.Join(dims, "x"), t.Data)
		}
		return fmt.Sprintf("array[%s]", strings.Join(dims, "x"))
	case value.Table:
		names := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			names[i] = c.Name
		}
		return fmt.Sprintf("table[%d rows] %s", t.Rows(), strings.Join(names, ","))
	case value.List:
		items := make([]string, len(t))
		for i, item := range t {
			items[i] = Summary(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case *value.Mapping:
		return fmt.Sprintf("{%d keys}", t.Len())
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FormatTimestamp renders a calibration timestamp as UTC RFC 3339.
func FormatTimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

func snapshotDocs(snapshots []Snapshot) []map[string]any {
	out := make([]map[string]any, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, map[string]any{
			"component": s.Component,
			"kind":      s.Kind,
			"dir":       s.Dir,
			"values":    value.MappingToMap(s.Values),
		})
	}
	return out
}

func historyDoc(component string, entries []HistoryEntry) map[string]any {
	list := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		list = append(list, map[string]any{
			"timestamp": e.Timestamp,
			"time":      FormatTimestamp(e.Timestamp),
			"dir":       e.Dir,
			"latest":    e.Latest,
		})
	}
	return map[string]any{"component": component, "calibrations": list}
}
