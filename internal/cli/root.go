// Package cli contains the Cobra commands for the alto console.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alto-ai/alto-console/internal/console"
	"github.com/alto-ai/alto-console/internal/credstore"
	"github.com/alto-ai/alto-console/pkg/altosdk"
	"github.com/alto-ai/alto-console/pkg/slogx"
)

// deps carries the shared dependencies built once in the root command's
// PersistentPreRunE and torn down in PersistentPostRunE.
type deps struct {
	cfg    console.Config
	store  *credstore.Store
	client *altosdk.Client
}

// NewRoot constructs the alto root command and registers all subcommands.
func NewRoot() *cobra.Command {
	d := &deps{}

	root := &cobra.Command{
		Use:           "alto",
		Short:         "Console for the Alto agent platform",
		Long:          "alto manages tools, agent behaviour and settings on a remote Alto platform, and tails its live logs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return d.init(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if d.store != nil {
				return d.store.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().String("api-url", "", "Platform API base URL (overrides ALTO_API_URL)")

	root.AddCommand(
		newLoginCommand(d),
		newLogoutCommand(d),
		newPasswdCommand(d),
		newToolsCommand(d),
		newAgentCommand(d),
		newSettingsCommand(d),
		newHealthCommand(d),
		newLogsCommand(d),
	)

	return root
}

// Execute runs the CLI under ctx and returns a process exit code.
func Execute(ctx context.Context) int {
	root := NewRoot()
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, altosdk.ErrSessionExpired) {
			// The auth failure handler already told the user what to do.
			return 1
		}
		fmt.Fprintln(os.Stderr, "alto:", err)
		return 1
	}
	return 0
}

func (d *deps) init(cmd *cobra.Command) error {
	d.cfg = console.LoadConfig()
	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		d.cfg.APIURL = apiURL
	}

	slogx.New(slogx.Config{
		Service: "alto",
		Level:   d.cfg.LogLevel,
		Format:  d.cfg.LogFormat,
	})

	if err := os.MkdirAll(filepath.Dir(d.cfg.StateDB), 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	store, err := credstore.NewStore(d.cfg.StateDB)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	if err := store.ApplyMigrations(); err != nil {
		store.Close()
		return fmt.Errorf("migrate credential store: %w", err)
	}
	d.store = store

	d.client = altosdk.NewClient(d.cfg.APIURL, store,
		altosdk.WithAuthFailureHandler(altosdk.AuthFailureFunc(func() {
			fmt.Fprintln(cmd.ErrOrStderr(), "alto: session expired, run `alto login`")
		})),
	)

	return nil
}

// requireSession is the login guard: commands that need authentication check
// for a persisted refresh credential before doing any work.
func (d *deps) requireSession(ctx context.Context) error {
	if !d.client.HasSession(ctx) {
		return errors.New("not logged in, run `alto login`")
	}
	return nil
}

// printJSON writes v as indented JSON, the CLI's standard output format.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
