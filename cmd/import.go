package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"calman/internal/snapshot"
	"calman/internal/store"
	"calman/internal/value"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		setup       string
		calibration bool
		overwrite   bool
		at          int64
	)

	cmd := &cobra.Command{
		Use:   "import <component> <file.yaml>",
		Short: "Save a YAML document as a component's configuration or calibration",
		Long: `Save a YAML document as the configuration of a component, or with
--calibration as a new calibration. Array and table files referenced by the
document (.npy and .csv next to it) are loaded and stored with it.

A calibration embeds the component's current configuration. With
--overwrite the latest calibration (or the one selected by --at) is
replaced in place instead of adding a new one.

Examples:
  calman import gripper gripper.yaml
  calman import gripper result.yaml --calibration
  calman import gripper fixed.yaml --calibration --overwrite --at 1700000000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			component, file := args[0], args[1]
			if overwrite && !calibration {
				return fmt.Errorf("--overwrite requires --calibration")
			}

			doc, err := readDocument(file)
			if err != nil {
				return err
			}
			s, err := opts.openSetup(setup)
			if err != nil {
				return err
			}

			if !calibration {
				if err := s.SaveComponentConfig(component, doc); err != nil {
					return err
				}
				paths, _ := s.Paths(component)
				fmt.Fprintf(cmd.OutOrStdout(), "Saved configuration to %s\n", paths.Config)
				return nil
			}

			loadOpts := store.LoadOptions{}
			if at > 0 {
				loadOpts.At = time.Unix(at, 0)
			}
			if _, _, err := s.LoadComponentConfig(component, loadOpts); err != nil {
				return err
			}
			if overwrite {
				if _, _, err := s.LoadComponentCalibration(component, loadOpts); err != nil {
					return err
				}
			}
			if err := s.SaveComponentCalibration(component, doc, overwrite); err != nil {
				return err
			}
			paths, _ := s.Paths(component)
			fmt.Fprintf(cmd.OutOrStdout(), "Saved calibration to %s\n", paths.Calibration)
			return nil
		},
	}

	addSetupFlag(cmd, &setup)
	cmd.Flags().BoolVar(&calibration, "calibration", false, "Save as a calibration instead of the configuration")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace the resolved calibration instead of adding one")
	cmd.Flags().Int64Var(&at, "at", 0, "Unix time selecting the calibration and configuration to build on")
	return cmd
}

// readDocument decodes a YAML file and loads the payload files it names.
func readDocument(path string) (*value.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := value.DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return snapshot.Rehydrate(doc, filepath.Dir(path))
}
