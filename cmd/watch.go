package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"calman/internal/formatting"
	"calman/internal/store"
	"calman/internal/watch"
	"calman/pkg/logging"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var (
		setup  string
		reload bool
		params string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print calibrations as they are written",
		Long: `Watch a setup and print a line for every new calibration.

With --reload each new calibration is loaded, and published when --params
is set, so a parameter server follows the latest calibration.

Examples:
  calman watch
  calman watch --reload --params default`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSetup(setup)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("params") {
				params = opts.cfg.Parameters.Namespace
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			events := make(chan watch.Event)
			w := watch.New(s.Root())
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				defer close(events)
				return w.Run(ctx, events)
			})
			g.Go(func() error {
				out := cmd.OutOrStdout()
				for ev := range events {
					fmt.Fprintf(out, "%s\t%d\t%s\t%s\n", ev.Component, ev.Timestamp, formatting.FormatTimestamp(ev.Timestamp), ev.Dir)
					if !reload {
						continue
					}
					loadOpts := store.LoadOptions{At: time.Unix(ev.Timestamp, 0), ParamNamespace: params}
					if _, _, err := s.LoadComponentCalibration(ev.Component, loadOpts); err != nil {
						logging.Warn("Watch", "failed to reload %s: %v", ev.Component, err)
					}
				}
				return nil
			})
			return g.Wait()
		},
	}

	addSetupFlag(cmd, &setup)
	cmd.Flags().BoolVar(&reload, "reload", false, "Load every new calibration")
	cmd.Flags().StringVar(&params, "params", "", `Parameter namespace to publish reloaded calibrations to ("default" for /<setup>/<component>)`)
	return cmd
}
