package config

// Parameter sink kinds.
const (
	SinkNone      = "none"
	SinkLog       = "log"
	SinkConfigMap = "configmap"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Config is the top-level calman configuration.
type Config struct {
	// Storage is the well-known setup storage location.
	Storage    string           `yaml:"storage,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Parameters ParametersConfig `yaml:"parameters,omitempty"`
	// Output is the default output format of the show and history commands.
	Output string `yaml:"output,omitempty"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn or error
	Format string `yaml:"format,omitempty"` // text or json
}

// ParametersConfig configures where loaded snapshots are published.
type ParametersConfig struct {
	Sink      string `yaml:"sink,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
	// ConfigMapNamespace is the Kubernetes namespace of the configmap sink.
	ConfigMapNamespace string `yaml:"configMapNamespace,omitempty"`
}
