package snapshot

import (
	"strconv"
	"strings"

	"calman/internal/payload"
	"calman/internal/value"
)

// Separator joins key path segments in externalized file names.
const Separator = "+"

// SideFile is a payload that has to be written next to the document.
type SideFile struct {
	// Name is relative to the snapshot directory.
	Name    string
	Payload value.Value
}

// Externalize returns a copy of m in which every array and table leaf is
// replaced by the name of the file it should be stored in, together with the
// list of those files. m itself is not modified.
func Externalize(m *value.Mapping) (*value.Mapping, []SideFile) {
	var files []SideFile
	out := externalizeMapping(m, "", &files)
	return out, files
}

func externalizeMapping(m *value.Mapping, prefix string, files *[]SideFile) *value.Mapping {
	out := value.NewMapping()
	for _, e := range m.Entries() {
		out.Set(e.Key, externalizeValue(e.Value, prefix, FileKey(e.Key), files))
	}
	return out
}

func externalizeValue(v value.Value, prefix, key string, files *[]SideFile) value.Value {
	if ext, ok := payload.Extension(v); ok {
		name := prefix + key + ext
		*files = append(*files, SideFile{Name: name, Payload: v})
		return value.Text(name)
	}
	switch t := v.(type) {
	case *value.Mapping:
		return externalizeMapping(t, prefix+key+Separator, files)
	case value.List:
		l := make(value.List, len(t))
		for i, item := range t {
			l[i] = externalizeValue(item, prefix+key+Separator, strconv.Itoa(i), files)
		}
		return l
	default:
		return v
	}
}

// FileKey makes a mapping key safe to use as part of a file name.
func FileKey(key string) string {
	key = strings.ReplaceAll(key, "/", Separator)
	key = strings.ReplaceAll(key, "\\", Separator)
	if key == "" || key == "." || key == ".." {
		return "_" + key
	}
	return key
}
