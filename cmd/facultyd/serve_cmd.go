package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"facultysite/internal/container"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve faculty documents and refresh them on a schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()
			gin.SetMode(cfg.Server.GinMode)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, err := container.New(ctx, cfg, logger)
			if err != nil {
				return err
			}

			// Serve the last persisted collection until the first refresh lands
			if _, err := c.RefreshService.Warm(ctx); err != nil {
				logger.Warn("Starting with an empty collection: %v", err)
			}
			c.Scheduler.Start(ctx)

			srv := &http.Server{
				Addr:              net.JoinHostPort("", cfg.Server.Port),
				Handler:           c.Handler,
				ReadHeaderTimeout: 10 * time.Second,
			}
			// Open event streams never finish on their own
			srv.RegisterOnShutdown(c.Events.Close)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Listening on %s", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
				logger.Info("Shutdown signal received")
			case err := <-errCh:
				if err != nil {
					c.Shutdown(context.Background())
					return err
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP shutdown: %v", err)
			}
			return c.Shutdown(shutdownCtx)
		},
	}
}
