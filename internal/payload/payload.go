// Package payload reads and writes the sibling files that hold array and
// table values of a snapshot: NumPy .npy files for arrays and CSV files for
// tables.
package payload

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"calman/internal/fsutil"
	"calman/internal/value"
)

const (
	// ArrayExt is the file extension of externalized arrays.
	ArrayExt = ".npy"
	// TableExt is the file extension of externalized tables.
	TableExt = ".csv"
)

// KindOf returns the payload kind encoded by the extension of name, or
// KindNull when name does not look like a payload file.
func KindOf(name string) value.Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ArrayExt:
		return value.KindArray
	case TableExt:
		return value.KindTable
	default:
		return value.KindNull
	}
}

// Extension returns the file extension used for v, and false when v is not
// externalized.
func Extension(v value.Value) (string, bool) {
	switch v.(type) {
	case value.Array:
		return ArrayExt, true
	case value.Table:
		return TableExt, true
	default:
		return "", false
	}
}

// Load reads the payload file at path.
func Load(path string) (value.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch KindOf(path) {
	case value.KindArray:
		a, err := ReadArray(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return a, nil
	case value.KindTable:
		t, err := ReadTable(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%s: not a payload file", path)
	}
}

// Write stores v at path, replacing any previous file atomically.
func Write(path string, v value.Value) error {
	var buf bytes.Buffer
	switch t := v.(type) {
	case value.Array:
		if err := WriteArray(&buf, t); err != nil {
			return err
		}
	case value.Table:
		if err := WriteTable(&buf, t); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%s: %s values are not payloads", path, v.Kind())
	}
	return fsutil.AtomicWrite(path, buf.Bytes(), 0o644)
}
