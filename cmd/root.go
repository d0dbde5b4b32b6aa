package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"calman/internal/config"
	"calman/internal/registry"
	"calman/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeNotFound indicates a setup or component does not exist.
	ExitCodeNotFound = 2
	// ExitCodeConflict indicates a setup already exists or a storage path is
	// not a directory.
	ExitCodeConflict = 3
)

// rootOptions holds the global flags and the configuration they resolve to.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	storage    string
	noColor    bool

	cfg config.Config
}

// rootCmd represents the base command for the calman application.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "calman",
		Short: "Versioned configuration and calibration store for robot setups",
		Long: `calman keeps the configuration and the calibration history of every
component of a robot setup on disk.

Each component has one current configuration and any number of timestamped
calibrations. Loading can select the newest calibration or the one that was
current at a given time, and can publish the loaded values to a parameter
server.`,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default is $HOME/.config/calman/config.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")
	flags.StringVar(&opts.storage, "storage", "", "Setup storage location (default is ~/.ros/setups)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored table output")

	cmd.AddCommand(
		newVersionCmd(),
		newStorageCmd(opts),
		newSetupCmd(opts),
		newShowCmd(opts),
		newHistoryCmd(opts),
		newImportCmd(opts),
		newExampleCmd(opts),
		newWatchCmd(opts),
	)
	return cmd
}

// init loads the configuration file and applies the global flags over it.
func (o *rootOptions) init(cmd *cobra.Command) error {
	path := o.configPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = o.logFormat
	}
	if flags.Changed("storage") {
		cfg.Storage = o.storage
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logging.InitForCLIWithFormat(level, cfg.Logging.Format, cmd.ErrOrStderr())
	o.cfg = cfg
	return nil
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calman version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return ExitCodeNotFound
	}

	var setupNotFound *registry.SetupNotFoundError
	if errors.As(err, &setupNotFound) {
		return ExitCodeNotFound
	}

	var exists *registry.SetupExistsError
	if errors.As(err, &exists) {
		return ExitCodeConflict
	}

	var notDir *registry.NotADirectoryError
	if errors.As(err, &notDir) {
		return ExitCodeConflict
	}

	return ExitCodeError
}
