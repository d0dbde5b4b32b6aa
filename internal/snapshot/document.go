package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"calman/internal/fsutil"
	"calman/internal/payload"
	"calman/internal/value"
)

const (
	// ConfigDocument is the document name inside a configuration directory.
	ConfigDocument = "cfg.yaml"
	// CalibrationDocument is the document name inside a calibration directory.
	CalibrationDocument = "cal.yaml"
)

// Write externalizes m into dir and writes it as the YAML document docName.
// Payload files are written before the document, and the document itself is
// replaced atomically, so a crash can leave unreferenced payload files but
// never a partial document. It returns the names of the payload files
// written, relative to dir.
func Write(dir, docName string, m *value.Mapping) ([]string, error) {
	doc, files := Externalize(m)
	names := make([]string, 0, len(files))
	for _, f := range files {
		if err := payload.Write(filepath.Join(dir, f.Name), f.Payload); err != nil {
			return nil, fmt.Errorf("failed to write payload %s: %w", f.Name, err)
		}
		names = append(names, f.Name)
	}
	data, err := value.EncodeYAML(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", docName, err)
	}
	if err := fsutil.AtomicWrite(filepath.Join(dir, docName), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", docName, err)
	}
	return names, nil
}

// Read decodes the document docName in dir without rehydrating payloads.
func Read(dir, docName string) (*value.Mapping, error) {
	path := filepath.Join(dir, docName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := value.DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
