package formatting

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	calstrings "calman/pkg/strings"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// FormatSetups lists setups, marking the selected one.
func (f *TableFormatter) FormatSetups(setups []SetupInfo) error {
	if len(setups) == 0 {
		return f.formatEmptyMessage("No setups found")
	}
	t := f.createTable()
	t.AppendHeader(table.Row{f.header(""), f.header("NAME"), f.header("PATH")})
	for _, s := range setups {
		marker := ""
		if s.Selected {
			marker = f.color(text.FgHiGreen, "*")
		}
		t.AppendRow(table.Row{marker, s.Name, s.Path})
	}
	t.Render()
	return nil
}

// FormatHistory lists the calibrations of a component, oldest first.
func (f *TableFormatter) FormatHistory(component string, entries []HistoryEntry) error {
	if len(entries) == 0 {
		return f.formatEmptyMessage(fmt.Sprintf("No calibrations found for %s", component))
	}
	t := f.createTable()
	t.SetTitle(component)
	t.AppendHeader(table.Row{f.header("TIMESTAMP"), f.header("TIME"), f.header("LATEST")})
	for _, e := range entries {
		latest := ""
		if e.Latest {
			latest = f.color(text.FgHiGreen, "latest")
		}
		t.AppendRow(table.Row{e.Timestamp, FormatTimestamp(e.Timestamp), latest})
	}
	t.AppendFooter(table.Row{"", "Total", len(entries)})
	t.Render()
	return nil
}

// FormatSnapshots renders each snapshot as a key/value table.
func (f *TableFormatter) FormatSnapshots(snapshots []Snapshot) error {
	if len(snapshots) == 0 {
		return f.formatEmptyMessage("No configuration or calibration loaded")
	}
	for _, s := range snapshots {
		t := f.createTable()
		t.SetTitle(fmt.Sprintf("%s %s (%s)", s.Component, s.Kind, s.Dir))
		t.AppendHeader(table.Row{f.header("KEY"), f.header("VALUE")})
		for _, row := range FlattenMapping(s.Values) {
			v := calstrings.TruncateCell(row.Value, calstrings.CellMaxLen)
			t.AppendRow(table.Row{f.color(text.FgHiCyan, row.Key), v})
		}
		t.Render()
	}
	return nil
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.options.Output)
	if f.options.Color {
		t.SetStyle(table.StyleRounded)
	} else {
		t.SetStyle(table.StyleLight)
	}
	return t
}

func (f *TableFormatter) header(s string) string {
	return f.color(text.FgHiCyan, s)
}

func (f *TableFormatter) color(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(message string) error {
	_, err := fmt.Fprintln(f.options.Output, f.color(text.FgYellow, message))
	return err
}
