package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"calman/internal/formatting"
)

func newSetupCmd(opts *rootOptions) *cobra.Command {
	var (
		createSelect bool
		listOutput   string
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create, list and select setups",
		Long: `Manage the setups of the storage location.

Examples:
  calman setup create cell_a --select
  calman setup list
  calman setup select cell_b
  calman setup current`,
		Args: cobra.NoArgs,
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty setup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			dir, err := reg.CreateSetup(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created setup %s\n", dir)
			if createSelect {
				return reg.SelectSetup(args[0])
			}
			return nil
		},
	}
	createCmd.Flags().BoolVar(&createSelect, "select", false, "Select the new setup")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List setups; the selected one is marked with *",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			names, err := reg.ListSetups()
			if err != nil {
				return err
			}
			selected, err := reg.SelectedSetup()
			if err != nil {
				return err
			}
			setups := make([]formatting.SetupInfo, 0, len(names))
			for _, name := range names {
				setups = append(setups, formatting.SetupInfo{
					Name:     name,
					Path:     reg.SetupPath(name),
					Selected: name == selected,
				})
			}
			f, err := opts.formatter(cmd, listOutput)
			if err != nil {
				return err
			}
			return f.FormatSetups(setups)
		},
	}
	addOutputFlag(listCmd, &listOutput)

	selectCmd := &cobra.Command{
		Use:     "select <name>",
		Aliases: []string{"use"},
		Short:   "Select the setup used when --setup is not given",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			if err := reg.SelectSetup(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Selected setup %s\n", args[0])
			return nil
		},
	}

	currentCmd := &cobra.Command{
		Use:   "current",
		Short: "Print the selected setup",
		Long:  "Print the name of the selected setup. Prints nothing if no setup is selected.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			name, err := reg.SelectedSetup()
			if err != nil {
				return err
			}
			if name != "" {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.AddCommand(createCmd, listCmd, selectCmd, currentCmd)
	return cmd
}
