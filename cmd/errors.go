package cmd

import "fmt"

// NotFoundError reports a setup or component with nothing to show.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}
