package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"calman/internal/formatting"
	"calman/internal/store"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var (
		setup    string
		at       int64
		output   string
		params   string
		defaults string
	)

	cmd := &cobra.Command{
		Use:   "show [component]",
		Short: "Load and print configuration and calibration",
		Long: `Load the configuration and calibration of one component, or of every
component of the setup, and print them.

With --at, the calibration taken at or before that Unix time is loaded
together with the configuration that was current when it was taken.

With --params, the loaded documents are also published to the configured
parameter sink. "default" publishes under /<setup>/<component>.

Examples:
  calman show
  calman show gripper -o yaml
  calman show gripper --at 1700000000
  calman show --setup ./cell_a --params default`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSetup(setup)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("params") {
				params = opts.cfg.Parameters.Namespace
			}
			loadOpts := store.LoadOptions{
				ParamNamespace: params,
				DefaultSource:  defaults,
			}
			if at > 0 {
				loadOpts.At = time.Unix(at, 0)
			}

			// A component that fails to load does not hide the others; what
			// was loaded is printed and the load error returned afterwards.
			var (
				components []string
				loadErr    error
			)
			if len(args) == 1 {
				loadErr = s.LoadComponent(args[0], loadOpts)
				components = []string{args[0]}
			} else {
				_, loadErr = s.LoadAll(loadOpts)
				components = s.Components()
			}

			snapshots := collectSnapshots(s, components)
			if len(snapshots) == 0 {
				if loadErr != nil {
					return loadErr
				}
				if len(args) == 1 {
					return &NotFoundError{Kind: "component", Name: args[0]}
				}
			}

			f, err := opts.formatter(cmd, output)
			if err != nil {
				return errors.Join(loadErr, err)
			}
			if err := f.FormatSnapshots(snapshots); err != nil {
				return errors.Join(loadErr, err)
			}
			return loadErr
		},
	}

	addSetupFlag(cmd, &setup)
	addOutputFlag(cmd, &output)
	cmd.Flags().Int64Var(&at, "at", 0, "Unix time to load the calibration history at (default is the latest)")
	cmd.Flags().StringVar(&params, "params", "", `Parameter namespace to publish to ("default" for /<setup>/<component>)`)
	cmd.Flags().StringVar(&defaults, "defaults", "", "Template directory installed as the configuration of components that have none")
	return cmd
}

func collectSnapshots(s *store.Setup, components []string) []formatting.Snapshot {
	var snapshots []formatting.Snapshot
	for _, name := range components {
		key := store.ComponentKey(name)
		paths, _ := s.Paths(name)
		if cfg, ok := s.Config(name); ok {
			snapshots = append(snapshots, formatting.Snapshot{Component: key, Kind: "cfg", Dir: paths.Config, Values: cfg})
		}
		if cal, ok := s.Calibration(name); ok {
			snapshots = append(snapshots, formatting.Snapshot{Component: key, Kind: "cal", Dir: paths.Calibration, Values: cal})
		}
	}
	return snapshots
}
