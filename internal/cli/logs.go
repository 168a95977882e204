package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alto-ai/alto-console/internal/tui"
	"github.com/alto-ai/alto-console/pkg/logstream"
)

// newLogsCommand constructs the `alto logs` subcommand.
func newLogsCommand(d *deps) *cobra.Command {
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Tail the platform's live log stream",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := d.requireSession(cmd.Context()); err != nil {
				return err
			}

			streamURL := d.client.BaseURL + "/logs/stream"

			if plain, _ := cmd.Flags().GetBool("plain"); plain {
				return tailPlain(cmd, streamURL, d)
			}

			return tui.RunLogs(tui.LogsConfig{
				StreamURL: streamURL,
				Tokens:    d.client,
			})
		},
	}
	logsCmd.Flags().Bool("plain", false, "Print records to stdout instead of the interactive viewer")
	return logsCmd
}

// tailPlain streams records to stdout until the command context is done.
// Useful for piping and for terminals without TTY support.
func tailPlain(cmd *cobra.Command, streamURL string, d *deps) error {
	out := cmd.OutOrStdout()

	session := logstream.New(logstream.Config{
		URL:    streamURL,
		Tokens: d.client,
		OnRecord: func(rec logstream.Record) {
			fmt.Fprintln(out, rec.Display)
		},
		OnState: func(st logstream.State) {
			fmt.Fprintf(cmd.ErrOrStderr(), "# %s\n", st)
		},
	})
	session.Start()
	defer session.Close()

	<-cmd.Context().Done()
	return nil
}
