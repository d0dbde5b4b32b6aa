package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"calman/internal/fsutil"
	"calman/internal/paramsink"
	"calman/internal/value"
	"calman/pkg/logging"
)

const (
	// ConfigDir is the directory holding a component's current configuration.
	ConfigDir = "cfg"
	// LatestLink is the symlink pointing at the newest calibration directory.
	LatestLink = "latest"
	// DefaultParamNamespace selects the /<setup>/<component> namespace.
	DefaultParamNamespace = "default"
)

// ErrInvalidComponent is returned for component names that cannot be used as
// a directory name.
var ErrInvalidComponent = errors.New("invalid component name")

// Paths records the directories a component's snapshots were loaded from or
// saved to in this session. Later saves use them to decide where to write.
type Paths struct {
	Config      string
	Calibration string
}

// LoadOptions controls snapshot resolution.
type LoadOptions struct {
	// At selects the newest calibration taken at or before this time. The
	// zero value selects the most recent snapshot.
	At time.Time
	// ParamNamespace is the namespace loaded values are published under.
	// Empty disables publishing; DefaultParamNamespace uses
	// /<setup>/<component>.
	ParamNamespace string
	// DefaultSource is a template directory copied into cfg/ when a
	// component has no configuration yet.
	DefaultSource string
}

// Setup is an opened setup directory together with the snapshots loaded
// from it.
type Setup struct {
	root string
	name string
	sink paramsink.Sink
	now  func() time.Time

	components []string
	cfg        map[string]*value.Mapping
	cal        map[string]*value.Mapping
	paths      map[string]*Paths
}

// Option configures a Setup.
type Option func(*Setup)

// WithParameterSink publishes loaded snapshots to sink.
func WithParameterSink(sink paramsink.Sink) Option {
	return func(s *Setup) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithClock replaces the clock used to name new calibration directories.
func WithClock(now func() time.Time) Option {
	return func(s *Setup) {
		if now != nil {
			s.now = now
		}
	}
}

// Open resolves path, expanding "~", and returns a handle for the setup
// rooted there. The directory does not have to exist yet; component
// operations create what they need. The setup is named after the directory.
func Open(path string, opts ...Option) (*Setup, error) {
	root, err := fsutil.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve setup directory %q: %w", path, err)
	}
	s := &Setup{
		root:  root,
		name:  filepath.Base(root),
		sink:  paramsink.Nop{},
		now:   time.Now,
		cfg:   make(map[string]*value.Mapping),
		cal:   make(map[string]*value.Mapping),
		paths: make(map[string]*Paths),
	}
	for _, opt := range opts {
		opt(s)
	}
	logging.Info("Store", "opened setup %s", root)
	return s, nil
}

// Name returns the setup name, the base name of its directory.
func (s *Setup) Name() string { return s.name }

// Root returns the absolute setup directory.
func (s *Setup) Root() string { return s.root }

// Components returns the component names found by the last LoadAll.
func (s *Setup) Components() []string {
	return append([]string(nil), s.components...)
}

// Config returns the loaded configuration of a component.
func (s *Setup) Config(component string) (*value.Mapping, bool) {
	m, ok := s.cfg[ComponentKey(component)]
	return m, ok
}

// Calibration returns the loaded calibration of a component.
func (s *Setup) Calibration(component string) (*value.Mapping, bool) {
	m, ok := s.cal[ComponentKey(component)]
	return m, ok
}

// Paths returns the directories resolved for a component in this session.
func (s *Setup) Paths(component string) (Paths, bool) {
	p, ok := s.paths[ComponentKey(component)]
	if !ok {
		return Paths{}, false
	}
	return *p, true
}

// ComponentKey normalizes a component name into its directory name:
// surrounding slashes are dropped and inner ones become "+", so a name like
// "/arm/wrist" is stored as "arm+wrist".
func ComponentKey(name string) string {
	return strings.ReplaceAll(strings.Trim(name, "/"), "/", "+")
}

func (s *Setup) componentPath(name string) (string, string, error) {
	key := ComponentKey(name)
	if key == "" || key == "." || key == ".." || strings.ContainsRune(key, filepath.Separator) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidComponent, name)
	}
	return key, filepath.Join(s.root, key), nil
}

func (s *Setup) pathsFor(key string) *Paths {
	p, ok := s.paths[key]
	if !ok {
		p = &Paths{}
		s.paths[key] = p
	}
	return p
}

// publish pushes a freshly read document to the parameter sink. Failures
// are logged and otherwise ignored.
func (s *Setup) publish(key string, m *value.Mapping, namespace string) {
	if namespace == "" {
		return
	}
	if namespace == DefaultParamNamespace {
		namespace = "/" + s.name + "/" + key
	}
	if !s.sink.Available() {
		logging.Debug("Store", "parameter sink unavailable, not publishing %s", namespace)
		return
	}
	if err := s.sink.SetParameters(namespace, value.MappingToMap(m)); err != nil {
		logging.Warn("Store", "failed to set parameters under %s: %v", namespace, err)
	}
}
