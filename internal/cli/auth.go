package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newLoginCommand constructs the `alto login` subcommand.
func newLoginCommand(d *deps) *cobra.Command {
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the platform",
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")

			reader := bufio.NewReader(cmd.InOrStdin())
			if username == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Username: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				username = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				password = strings.TrimRight(line, "\r\n")
			}

			if _, err := d.client.Login(cmd.Context(), username, password); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
			return nil
		},
	}
	loginCmd.Flags().StringP("username", "u", "", "Username")
	loginCmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")
	return loginCmd
}

// newLogoutCommand constructs the `alto logout` subcommand.
func newLogoutCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and clear local credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := d.client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

// newPasswdCommand constructs the `alto passwd` subcommand.
func newPasswdCommand(d *deps) *cobra.Command {
	passwdCmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := d.requireSession(cmd.Context()); err != nil {
				return err
			}

			current, _ := cmd.Flags().GetString("current")
			next, _ := cmd.Flags().GetString("new")
			if current == "" || next == "" {
				return fmt.Errorf("both --current and --new are required")
			}

			if err := d.client.ChangePassword(cmd.Context(), current, next); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Password changed.")
			return nil
		},
	}
	passwdCmd.Flags().String("current", "", "Current password")
	passwdCmd.Flags().String("new", "", "New password")
	return passwdCmd
}
