package commands

import (
	"os"

	"github.com/spf13/cobra"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Full-screen calculator (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return appCtx.RunTUI(cmd.Context(), os.Stderr)
		},
	}
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Line calculator with a live result preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			return appCtx.RunREPL(cmd.Context(), cmd.OutOrStdout())
		},
	}
}
