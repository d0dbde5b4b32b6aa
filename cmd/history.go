package cmd

import (
	"github.com/spf13/cobra"

	"calman/internal/formatting"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		setup  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "history <component>",
		Short: "List the calibrations of a component",
		Long: `List the calibrations of a component, oldest first. The one the latest
link points at is marked.

Examples:
  calman history gripper
  calman history gripper -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSetup(setup)
			if err != nil {
				return err
			}
			times, err := s.CalibrationHistory(args[0])
			if err != nil {
				return err
			}
			latest, _, err := s.LatestCalibration(args[0])
			if err != nil {
				return err
			}

			entries := make([]formatting.HistoryEntry, 0, len(times))
			for _, ts := range times {
				dir, err := s.CalibrationDir(args[0], ts)
				if err != nil {
					return err
				}
				entries = append(entries, formatting.HistoryEntry{Timestamp: ts, Dir: dir, Latest: ts == latest})
			}

			f, err := opts.formatter(cmd, output)
			if err != nil {
				return err
			}
			return f.FormatHistory(args[0], entries)
		},
	}

	addSetupFlag(cmd, &setup)
	addOutputFlag(cmd, &output)
	return cmd
}
