package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lovecalc/internal/app"
	"lovecalc/internal/pkg/logger"
)

var (
	envFile  string
	backend  string
	logLevel string
	dark     bool
	sound    bool

	appCtx *app.App
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if appCtx != nil {
		if cerr := appCtx.Close(); cerr != nil {
			slog.Warn("close failed", "error", cerr)
		}
	}
	return err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "calculator",
		Short:        "Love-themed calculator: terminal UI, REPL and HTTP session API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			cfg, err := app.LoadCfg(files...)
			if err != nil {
				return err
			}
			if backend != "" {
				cfg.History.Backend = backend
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("dark") {
				cfg.Session.Dark = dark
			}
			if cmd.Flags().Changed("sound") {
				cfg.Session.Sound = sound
			}

			// Полноэкранный интерфейс занимает терминал: логи только в файл.
			log := logger.New(cfg.Log, !fullscreen(cmd))
			slog.SetDefault(log)
			appCtx = app.New(cfg, log)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return appCtx.RunTUI(cmd.Context(), os.Stderr)
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file (default ./.env)")
	root.PersistentFlags().StringVar(&backend, "backend", "", "history backend: sqlite, redis, postgres, mongo, memory")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn, error")
	root.PersistentFlags().BoolVar(&dark, "dark", false, "start in dark mode")
	root.PersistentFlags().BoolVar(&sound, "sound", false, "ring the terminal bell on key presses")

	root.AddCommand(tuiCmd(), replCmd(), evalCmd(), historyCmd(), serveCmd(), consumeCmd())
	return root
}

func fullscreen(cmd *cobra.Command) bool {
	return cmd.Name() == "tui" || !cmd.HasParent()
}
