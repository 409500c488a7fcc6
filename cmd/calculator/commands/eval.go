package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func evalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression without touching the history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := appCtx.Eval(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	var clearHistory bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the saved calculation history",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if clearHistory {
				if err := appCtx.ClearHistory(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "history cleared")
				return nil
			}
			entries, err := appCtx.History(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No calculations yet")
				return nil
			}
			for i, e := range entries {
				fmt.Fprintf(out, "%2d. %s\n", i+1, e)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearHistory, "clear", false, "delete the saved history")
	return cmd
}
