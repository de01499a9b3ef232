package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cinescore/internal/config"
	"cinescore/internal/core"
	"cinescore/internal/handlers"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web form and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.logger()
			defer logger.Sync()

			manager, err := core.NewManager(cfg, logger)
			if err != nil {
				return err
			}

			server, err := handlers.NewServer(cfg, manager, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := manager.StartScheduler(); err != nil {
				return err
			}
			defer manager.Stop()

			go func() {
				err := config.Watch(runCtx, *ctx.configPath, logger, func(next *config.Config) {
					if err := manager.Reload(next); err != nil {
						logger.Warn("Config reload rejected:", err)
						return
					}
					logger.Info("Configuration reloaded from", *ctx.configPath)
				})
				if err != nil {
					logger.Warn("Config watcher stopped:", err)
				}
			}()

			serveErr := make(chan error, 1)
			go func() {
				serveErr <- server.Start()
			}()

			logger.Info("cinescore started successfully on port", cfg.App.Port)

			select {
			case err := <-serveErr:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-runCtx.Done():
			}

			logger.Info("Shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Stop(shutdownCtx)
		},
	}
}
