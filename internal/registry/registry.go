package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"calman/internal/fsutil"
	"calman/pkg/logging"
)

const (
	// DefaultRoot is the well-known storage location.
	DefaultRoot = "~/.ros/setups"
	// SelectedSetupFile records the selected setup inside the storage root.
	SelectedSetupFile = "selected_setup"
)

// Registry provides access to the setups under a storage root.
type Registry struct {
	mu   sync.Mutex
	root string
}

// New returns a registry rooted at root, or at DefaultRoot when root is
// empty. A leading "~" is expanded.
func New(root string) (*Registry, error) {
	if root == "" {
		root = DefaultRoot
	}
	expanded, err := fsutil.ExpandHome(root)
	if err != nil {
		return nil, fmt.Errorf("failed to expand storage root %q: %w", root, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root %q: %w", root, err)
	}
	return &Registry{root: abs}, nil
}

// Root returns the storage root path, which may itself be a symlink.
func (r *Registry) Root() string { return r.root }

// SetupPath returns the directory of the named setup. It does not check
// that the setup exists.
func (r *Registry) SetupPath(name string) string {
	return filepath.Join(r.root, name)
}

// SetStorageLocation points the storage root at path. The path must be an
// existing directory; otherwise a *NotADirectoryError is returned and the
// current link is left as it was. A storage root that is a real directory
// rather than a link is never replaced.
func (r *Registry) SetStorageLocation(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, err := fsutil.Resolve(path)
	if err != nil {
		return fmt.Errorf("failed to resolve storage location %q: %w", path, err)
	}
	if !fsutil.IsDir(target) {
		return &NotADirectoryError{Path: target}
	}

	if info, err := os.Lstat(r.root); err == nil && info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("storage root %s is a directory, not a link; move it away first", r.root)
	}
	if err := os.MkdirAll(filepath.Dir(r.root), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(r.root), err)
	}
	if err := fsutil.ReplaceSymlink(target, r.root); err != nil {
		return fmt.Errorf("failed to link %s to %s: %w", r.root, target, err)
	}

	logging.Info("Registry", "storage location set to %s", target)
	return nil
}

// CreateSetup creates an empty setup directory and returns its path.
func (r *Registry) CreateSetup(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage root: %w", err)
	}
	dir := r.SetupPath(name)
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", &SetupExistsError{Name: name}
		}
		return "", fmt.Errorf("failed to create setup %q: %w", name, err)
	}

	logging.Info("Registry", "created setup %s", dir)
	return dir, nil
}

// ListSetups returns the names of all setups, sorted.
func (r *Registry) ListSetups() ([]string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list setups: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if name == SelectedSetupFile || strings.HasPrefix(name, ".") {
			continue
		}
		if fsutil.IsDir(filepath.Join(r.root, name)) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// SelectSetup records name as the selected setup. A missing setup yields
// a *SetupNotFoundError.
func (r *Registry) SelectSetup(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !fsutil.IsDir(r.SetupPath(name)) {
		return &SetupNotFoundError{Name: name}
	}
	// Rename replaces a legacy symlink pointer as well as a text one.
	if err := fsutil.AtomicWrite(filepath.Join(r.root, SelectedSetupFile), []byte(name+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to record selected setup: %w", err)
	}

	logging.Info("Registry", "selected setup %s", name)
	return nil
}

// SelectedSetup returns the name of the selected setup, or "" when none
// has been selected.
func (r *Registry) SelectedSetup() (string, error) {
	pointer := filepath.Join(r.root, SelectedSetupFile)
	info, err := os.Lstat(pointer)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read selected setup: %w", err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(pointer)
		if err != nil {
			return "", fmt.Errorf("failed to read selected setup link: %w", err)
		}
		return filepath.Base(filepath.Clean(target)), nil
	}

	data, err := os.ReadFile(pointer)
	if err != nil {
		return "", fmt.Errorf("failed to read selected setup: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SelectedSetupPath returns the directory of the selected setup.
func (r *Registry) SelectedSetupPath() (string, error) {
	name, err := r.SelectedSetup()
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", errors.New("no setup selected; run 'calman setup select <name>' or pass --setup")
	}
	return r.SetupPath(name), nil
}

func validateName(name string) error {
	switch {
	case name == "":
		return errors.New("setup name cannot be empty")
	case name == "." || name == "..", strings.ContainsAny(name, `/\`):
		return fmt.Errorf("invalid setup name %q", name)
	case name == SelectedSetupFile:
		return fmt.Errorf("setup name %q is reserved", name)
	}
	return nil
}
