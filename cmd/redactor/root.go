package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the redactor.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redactor",
		Short: "Mask personal information in plain-text documents",
		Long: `redactor masks personal information in plain-text documents.

Each input file is written to <output>/<name>.censored with every sensitive
character replaced by a block glyph. Line breaks and document length are kept,
and per-category counts are reported after every run.

Optional entity recognizer sidecars (--ner-url, --transformer-url) add
statistical name, date and location detection on top of the built-in rules.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewRedactCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
