package payload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"calman/internal/value"
)

// ReadTable decodes a CSV stream whose first record names the columns.
// An empty stream is an empty table.
func ReadTable(r io.Reader) (value.Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return value.Table{}, nil
	}
	if err != nil {
		return value.Table{}, fmt.Errorf("read csv header: %w", err)
	}

	cols := make([]value.Column, len(header))
	for i, name := range header {
		cols[i] = value.Column{Name: name, Cells: []string{}}
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return value.Table{}, fmt.Errorf("read csv: %w", err)
		}
		for i, cell := range rec {
			cols[i].Cells = append(cols[i].Cells, cell)
		}
	}
	return value.Table{Columns: cols}, nil
}

// WriteTable encodes t as CSV with a header row.
func WriteTable(w io.Writer, t value.Table) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	if err := writeRecord(w, cw, header); err != nil {
		return err
	}
	rows := t.Rows()
	for r := 0; r < rows; r++ {
		rec := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			if r >= len(c.Cells) {
				return fmt.Errorf("column %q has %d rows, want %d", c.Name, len(c.Cells), rows)
			}
			rec[i] = c.Cells[r]
		}
		if err := writeRecord(w, cw, rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeRecord writes rec through cw, except that a lone empty field is
// quoted: encoding/csv writes it as a blank line, which readers skip.
func writeRecord(w io.Writer, cw *csv.Writer, rec []string) error {
	if len(rec) != 1 || rec[0] != "" {
		return cw.Write(rec)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\"\"\n")
	return err
}
