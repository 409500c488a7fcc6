package commands

import (
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP session API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return appCtx.Serve(cmd.Context())
		},
	}
}

func consumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Copy published calculations from Kafka to ClickHouse",
		RunE: func(cmd *cobra.Command, args []string) error {
			return appCtx.Consume(cmd.Context())
		},
	}
}
