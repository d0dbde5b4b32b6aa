package registry

import "fmt"

// NotADirectoryError is returned when a storage location does not exist or
// is not a directory.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("not a directory: %s", e.Path)
}

// SetupExistsError is returned when creating a setup whose directory is
// already present.
type SetupExistsError struct {
	Name string
}

func (e *SetupExistsError) Error() string {
	return fmt.Sprintf("setup %q already exists", e.Name)
}

// SetupNotFoundError is returned when selecting a setup that does not exist.
type SetupNotFoundError struct {
	Name string
}

func (e *SetupNotFoundError) Error() string {
	return fmt.Sprintf("setup %q not found", e.Name)
}
