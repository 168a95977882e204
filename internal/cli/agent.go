package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newAgentCommand constructs the `agent` command group.
func newAgentCommand(d *deps) *cobra.Command {
	agentCmd := &cobra.Command{Use: "agent", Short: "Inspect and tune agent behaviour"}
	agentCmd.AddCommand(newAgentShowCommand(d), newAgentSetCommand(d))
	return agentCmd
}

func newAgentShowCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the agent behaviour settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := d.requireSession(cmd.Context()); err != nil {
				return err
			}
			agent, err := d.client.GetAgent(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), agent)
		},
	}
}

func newAgentSetCommand(d *deps) *cobra.Command {
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update agent behaviour settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := d.requireSession(cmd.Context()); err != nil {
				return err
			}

			patch := map[string]any{}
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				patch["name"] = name
			}
			if cmd.Flags().Changed("model") {
				model, _ := cmd.Flags().GetString("model")
				patch["model"] = model
			}
			if cmd.Flags().Changed("prompt") {
				prompt, _ := cmd.Flags().GetString("prompt")
				patch["system_prompt"] = prompt
			}
			if cmd.Flags().Changed("temperature") {
				temp, _ := cmd.Flags().GetFloat64("temperature")
				patch["temperature"] = temp
			}
			if len(patch) == 0 {
				return fmt.Errorf("nothing to update, pass at least one of --name, --model, --prompt, --temperature")
			}

			agent, err := d.client.UpdateAgent(cmd.Context(), patch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), agent)
		},
	}
	setCmd.Flags().String("name", "", "Agent display name")
	setCmd.Flags().String("model", "", "Model identifier")
	setCmd.Flags().String("prompt", "", "System prompt")
	setCmd.Flags().Float64("temperature", 0, "Sampling temperature")
	return setCmd
}

// newSettingsCommand constructs the `settings` command group.
func newSettingsCommand(d *deps) *cobra.Command {
	settingsCmd := &cobra.Command{Use: "settings", Short: "Manage platform settings"}

	setCmd := &cobra.Command{
		Use:   "set <key=value> [key=value ...]",
		Short: "Merge key=value pairs into the settings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.requireSession(cmd.Context()); err != nil {
				return err
			}

			patch := make(map[string]any, len(args))
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok || key == "" {
					return fmt.Errorf("invalid argument %q, expected key=value", arg)
				}
				patch[key] = value
			}

			settings, err := d.client.UpdateSettings(cmd.Context(), patch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), settings)
		},
	}

	unsetCmd := &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a settings key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := d.client.DeleteSetting(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed.")
			return nil
		},
	}

	settingsCmd.AddCommand(setCmd, unsetCmd)
	return settingsCmd
}

// newHealthCommand constructs the `health` subcommand.
func newHealthCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check platform liveness",
		RunE: func(cmd *cobra.Command, _ []string) error {
			health, err := d.client.Health(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), health)
		},
	}
}
