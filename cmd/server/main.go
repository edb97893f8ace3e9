package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Dhruv1249/expense-server/internal/auth"
	"github.com/Dhruv1249/expense-server/internal/config"
	"github.com/Dhruv1249/expense-server/internal/server"
	"github.com/Dhruv1249/expense-server/internal/service"
	"github.com/Dhruv1249/expense-server/internal/storage/sqlite"
	"github.com/Dhruv1249/expense-server/pkg/logging"
)

func main() {
	root := &cobra.Command{
		Use:   "expense-server",
		Short: "Group expense sharing backend",
	}
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup(cfg.LogLevel)

			store, err := sqlite.New(cfg.DBPath)
			if err != nil {
				slog.Error("failed to initialize storage", "error", err)
				return err
			}
			defer store.Close()
			slog.Info("storage initialized", "database", cfg.DBPath)

			tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
			authenticator := auth.NewPasswordAuthenticator(store)

			srv := server.New(
				tokens,
				service.NewAuthService(authenticator, tokens),
				service.NewGroupService(store),
				service.NewExpenseService(store),
			)

			// Shut down cleanly on SIGINT/SIGTERM.
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-stop
				slog.Info("shutting down", "signal", sig)
				if err := srv.Shutdown(); err != nil {
					slog.Error("shutdown failed", "error", err)
				}
			}()

			slog.Info("server starting", "addr", cfg.Addr)
			return srv.Listen(cfg.Addr)
		},
	}
}
