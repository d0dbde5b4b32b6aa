package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"calman/internal/config"
	"calman/internal/formatting"
	"calman/internal/fsutil"
	"calman/internal/paramsink"
	"calman/internal/registry"
	"calman/internal/store"
)

// newSink builds the configured parameter sink. Tests replace it.
var newSink = func(cfg config.ParametersConfig) (paramsink.Sink, error) {
	switch cfg.Sink {
	case config.SinkLog:
		return paramsink.LogSink{}, nil
	case config.SinkConfigMap:
		return paramsink.NewConfigMapSinkFromEnvironment(cfg.ConfigMapNamespace)
	default:
		return paramsink.Nop{}, nil
	}
}

func (o *rootOptions) registry() (*registry.Registry, error) {
	return registry.New(o.cfg.Storage)
}

// setupPath resolves the --setup flag. A value that looks like a path is
// used as is, any other value names a setup of the storage location, and
// an empty value means the selected setup.
func (o *rootOptions) setupPath(setup string) (string, error) {
	if isPathLike(setup) {
		return setup, nil
	}
	reg, err := o.registry()
	if err != nil {
		return "", err
	}
	if setup == "" {
		return reg.SelectedSetupPath()
	}
	path := reg.SetupPath(setup)
	if !fsutil.IsDir(path) {
		return "", &registry.SetupNotFoundError{Name: setup}
	}
	return path, nil
}

// openSetup opens the setup named by the --setup flag with the configured
// parameter sink.
func (o *rootOptions) openSetup(setup string) (*store.Setup, error) {
	path, err := o.setupPath(setup)
	if err != nil {
		return nil, err
	}
	sink, err := newSink(o.cfg.Parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to create parameter sink: %w", err)
	}
	return store.Open(path, store.WithParameterSink(sink))
}

func (o *rootOptions) formatter(cmd *cobra.Command, output string) (formatting.Formatter, error) {
	if output == "" {
		output = o.cfg.Output
	}
	return formatting.NewFormatter(formatting.Options{
		Format: formatting.OutputFormat(output),
		Output: cmd.OutOrStdout(),
		Color:  !o.noColor,
	})
}

func isPathLike(s string) bool {
	return strings.ContainsAny(s, `/\`) || strings.HasPrefix(s, "~") || s == "." || s == ".."
}

func addSetupFlag(cmd *cobra.Command, setup *string) {
	cmd.Flags().StringVarP(setup, "setup", "s", "", "Setup name or directory (default is the selected setup)")
}

func addOutputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", "", "Output format: table, json or yaml")
}
