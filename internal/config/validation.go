package config

import (
	"errors"
	"fmt"
	"slices"

	"calman/pkg/logging"
)

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid value %q, expected one of %v", e.Field, e.Value, e.Allowed)
}

// Validate checks the enumerated fields and reports every invalid one.
func (c Config) Validate() error {
	var errs []error
	check := func(field, value string, allowed ...string) {
		if !slices.Contains(allowed, value) {
			errs = append(errs, ValidationError{Field: field, Value: value, Allowed: allowed})
		}
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	check("logging.format", c.Logging.Format, logging.FormatText, logging.FormatJSON)
	check("parameters.sink", c.Parameters.Sink, SinkNone, SinkLog, SinkConfigMap)
	check("output", c.Output, OutputTable, OutputJSON, OutputYAML)
	if c.Storage == "" {
		errs = append(errs, errors.New("storage: must not be empty"))
	}
	return errors.Join(errs...)
}
