package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-concierge/internal/api"
	"github.com/ajitpratap0/openclaw-concierge/internal/lifecycle"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP/JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			svc, prefs, closeAll := newService(cmd.Context(), false, logger)
			defer closeAll()

			srv := api.NewServer(svc, prefs, logger, cfg.API.AuthToken)

			lm := lifecycle.NewManager(svc.Registry(), cfg.Conversation.IdleTTL(), logger)
			srv.SetLifecycle(lm)
			go lm.Loop(cmd.Context(), cfg.Conversation.SweepInterval())

			if cfg.API.AuthToken == "" {
				logger.Warn("HTTP API: auth is DISABLED; set CONCIERGE_API_AUTH_TOKEN or api.auth_token for production use")
			}

			httpSrv := &http.Server{
				Addr:              cfg.API.ListenAddr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      60 * time.Second,
				IdleTimeout:       120 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP API server starting", "addr", cfg.API.ListenAddr,
					"completion", cfg.Completion.Enabled(), "catalog", cfg.Catalog.Source)
				if listenErr := httpSrv.ListenAndServe(); listenErr != nil && listenErr != http.ErrServerClosed {
					errCh <- fmt.Errorf("serve: HTTP server: %w", listenErr)
				}
				close(errCh)
			}()

			select {
			case <-cmd.Context().Done():
				logger.Info("shutting down")
			case startErr := <-errCh:
				return startErr
			}

			const shutdownTimeout = 10 * time.Second
			if shutdownErr := api.Shutdown(httpSrv, shutdownTimeout); shutdownErr != nil {
				return fmt.Errorf("serve: graceful shutdown: %w", shutdownErr)
			}

			if startErr := <-errCh; startErr != nil {
				return startErr
			}
			return nil
		},
	}
	return cmd
}
