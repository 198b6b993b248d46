package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/spacesedan/reviewcloud/internal/clients"
	"github.com/spacesedan/reviewcloud/internal/store"
	"github.com/spacesedan/reviewcloud/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	deps, err := buildComponents(ctx, settings)
	if err != nil {
		return err
	}

	var st store.Store = store.NewMemoryStore(store.DEFAULT_MEMORY_ENTRIES, settings.ArtifactTTL)
	if settings.ValkeyAddress != "" {
		vc, err := clients.NewValkeyClient(clients.ValkeyOptions{
			Address:  settings.ValkeyAddress,
			Password: settings.ValkeyPassword,
			TLS:      settings.ValkeyTLS,
		})
		if err != nil {
			return err
		}
		defer vc.Close()
		st = store.NewValkeyStore(vc, settings.ArtifactTTL)
	}

	if settings.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := web.NewServer(deps.service, st, deps.metrics, deps.taggerHealthy, web.Config{
		MaxUploadBytes: settings.MaxUploadBytes,
	})
	srv := &http.Server{
		Addr:              settings.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("[Main] HTTP server starting",
			slog.String("addr", settings.HTTPAddr),
			slog.String("env", settings.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("[Main] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
