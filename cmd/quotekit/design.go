package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wudi/quotekit/design"
)

func newDesignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design",
		Short: "Inspect design configurations",
	}

	var asJSON bool
	var preset string
	def := &cobra.Command{
		Use:   "default",
		Short: "Print the default design or a preset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, ok := design.Preset(preset)
			if !ok {
				return fmt.Errorf("unknown preset %q (available: %s)", preset, strings.Join(design.Presets(), ", "))
			}
			return design.Encode(cmd.OutOrStdout(), cfg, asJSON)
		},
	}
	def.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of YAML")
	def.Flags().StringVar(&preset, "preset", "classic", "preset name")

	validate := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check design files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if _, err := design.LoadFile(path); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			}
			return nil
		},
	}

	cmd.AddCommand(def, validate)
	return cmd
}
