package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	redactlog "github.com/nao1215/redactor/internal/log"
)

// getBoolFlag retrieves a boolean flag from the command or the root's
// persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// setupLogger creates the content-masking logger selected by the global flags.
func setupLogger(cmd *cobra.Command, w io.Writer) *slog.Logger {
	verbose := getBoolFlag(cmd, "verbose")
	if getBoolFlag(cmd, "log-json") {
		return redactlog.NewSecureJSONLogger(w, verbose)
	}
	return redactlog.NewSecureLogger(w, verbose)
}
