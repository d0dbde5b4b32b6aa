package config

import "calman/internal/registry"

// GetDefaultConfig returns the configuration used when no file is present.
func GetDefaultConfig() Config {
	return Config{
		Storage: registry.DefaultRoot,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Parameters: ParametersConfig{
			Sink:               SinkNone,
			ConfigMapNamespace: "default",
		},
		Output: OutputTable,
	}
}
