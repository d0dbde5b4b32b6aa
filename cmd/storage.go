package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newStorageCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Manage the setup storage location",
		Long: `The storage location is a symlink (by default ~/.ros/setups) pointing at
the directory that holds all setups.

Examples:
  calman storage show
  calman storage set /data/setups`,
		Args: cobra.NoArgs,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <path>",
		Short: "Point the storage location at an existing directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			if err := reg.SetStorageLocation(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Storage location %s now points to %s\n", reg.Root(), args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the storage location and where it points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			target, err := os.Readlink(reg.Root())
			if err != nil {
				fmt.Fprintln(out, reg.Root())
				return nil
			}
			fmt.Fprintf(out, "%s -> %s\n", reg.Root(), target)
			return nil
		},
	})
	return cmd
}
