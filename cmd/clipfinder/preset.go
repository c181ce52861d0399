package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dagingo/clip-finder/internal/preset"
)

// newPresetCmd creates the preset subcommand and its children.
func newPresetCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved search presets",
		Long:  "Save, list and show named search presets stored in presets.json in the config directory.",
	}

	cmd.AddCommand(newPresetSaveCmd(flags))
	cmd.AddCommand(newPresetListCmd(flags))
	cmd.AddCommand(newPresetShowCmd(flags))

	return cmd
}

func newPresetSaveCmd(flags *globalFlags) *cobra.Command {
	var criteria criteriaFlags

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save or update a preset",
		Long:  "Save a preset. An existing preset of that name keeps every value not given as a flag.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}

			name := args[0]
			p, err := e.presets.Get(name)
			if err != nil {
				p = preset.Default()
			}
			p = criteria.apply(cmd, p)

			if err := e.presets.Save(name, p); err != nil {
				return fmt.Errorf("failed to save preset: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preset %q saved to %s\n", name, e.presets.Path())
			return nil
		},
	}

	criteria.register(cmd)
	return cmd
}

func newPresetListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List preset names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			names, err := e.presets.Names()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No presets saved.")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newPresetShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a preset as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags)
			if err != nil {
				return err
			}
			p, err := e.presets.Get(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "    ")
			return enc.Encode(p)
		},
	}
}
