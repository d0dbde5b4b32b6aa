package snapshot

import (
	"fmt"
	"path/filepath"

	"calman/internal/fsutil"
	"calman/internal/payload"
	"calman/internal/value"
)

// Rehydrate returns a copy of m in which every string leaf that names an
// existing payload file in dir is replaced by the file's contents. Strings
// that merely look like file names but have no file are left alone.
func Rehydrate(m *value.Mapping, dir string) (*value.Mapping, error) {
	out := value.NewMapping()
	for _, e := range m.Entries() {
		v, err := rehydrateValue(e.Value, dir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Key, err)
		}
		out.Set(e.Key, v)
	}
	return out, nil
}

func rehydrateValue(v value.Value, dir string) (value.Value, error) {
	switch t := v.(type) {
	case value.Text:
		name := string(t)
		if payload.KindOf(name) == value.KindNull || filepath.IsAbs(name) || filepath.Base(name) != name {
			return v, nil
		}
		path := filepath.Join(dir, name)
		if !fsutil.IsFile(path) {
			return v, nil
		}
		return payload.Load(path)
	case *value.Mapping:
		return Rehydrate(t, dir)
	case value.List:
		l := make(value.List, len(t))
		for i, item := range t {
			r, err := rehydrateValue(item, dir)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			l[i] = r
		}
		return l, nil
	default:
		return v, nil
	}
}

// References returns the payload file names an externalized document points
// at, in document order.
func References(m *value.Mapping) []string {
	var names []string
	for _, e := range m.Entries() {
		names = appendReferences(names, e.Value)
	}
	return names
}

func appendReferences(names []string, v value.Value) []string {
	switch t := v.(type) {
	case value.Text:
		name := string(t)
		if payload.KindOf(name) != value.KindNull && filepath.Base(name) == name {
			names = append(names, name)
		}
	case *value.Mapping:
		for _, e := range t.Entries() {
			names = appendReferences(names, e.Value)
		}
	case value.List:
		for _, item := range t {
			names = appendReferences(names, item)
		}
	}
	return names
}
