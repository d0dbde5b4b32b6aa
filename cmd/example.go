package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"calman/internal/store"
)

func newExampleCmd(opts *rootOptions) *cobra.Command {
	var setup string

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write an example component to a setup",
		Long: `Write an example configuration and calibration for the component
"example_component". Useful to see the on-disk layout and to check that a
setup is writable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSetup(setup)
			if err != nil {
				return err
			}
			if err := s.WriteExample(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", filepath.Join(s.Root(), store.ExampleComponent))
			return nil
		},
	}

	addSetupFlag(cmd, &setup)
	return cmd
}
