package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alto-ai/alto-console/pkg/altosdk"
)

// newToolsCommand constructs the `tools` command group.
func newToolsCommand(d *deps) *cobra.Command {
	toolsCmd := &cobra.Command{Use: "tools", Short: "Manage platform tools"}

	toolsCmd.AddCommand(
		newToolsListCommand(d),
		newToolsGetCommand(d),
		newToolsEnableCommand(d, true),
		newToolsEnableCommand(d, false),
		newToolsDeleteCommand(d),
		newToolsConnectCommand(d),
		newToolsDisconnectCommand(d),
	)

	return toolsCmd
}

func newToolsListCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered tools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := d.requireSession(cmd.Context()); err != nil {
				return err
			}
			tools, err := d.client.ListTools(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), tools)
		},
	}
}

func newToolsGetCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.requireSession(cmd.Context()); err != nil {
				return err
			}
			tool, err := d.client.GetTool(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), tool)
		},
	}
}

func newToolsEnableCommand(d *deps, enable bool) *cobra.Command {
	use, short := "enable <id>", "Allow the agent to use a tool"
	if !enable {
		use, short = "disable <id>", "Forbid the agent from using a tool"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.requireSession(cmd.Context()); err != nil {
				return err
			}
			tool, err := d.client.UpdateTool(cmd.Context(), args[0], altosdk.ToolPatch{Enabled: &enable})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), tool)
		},
	}
}

func newToolsDeleteCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a tool from the platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := d.client.DeleteTool(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		},
	}
}

func newToolsConnectCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "connect <id>",
		Short: "Start the OAuth delegation flow for a tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.requireSession(cmd.Context()); err != nil {
				return err
			}
			start, err := d.client.StartOAuth(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Open this URL to authorize:")
			fmt.Fprintln(cmd.OutOrStdout(), start.AuthorizeURL)
			return nil
		},
	}
}

func newToolsDisconnectCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <id>",
		Short: "Revoke a tool's OAuth delegation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := d.client.DisconnectOAuth(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Disconnected.")
			return nil
		},
	}
}
