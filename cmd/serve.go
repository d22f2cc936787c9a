package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ssrmodes/internal/config"
	"ssrmodes/internal/logger"
	"ssrmodes/internal/web"

	"github.com/spf13/cobra"
)

const readHeaderTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the blog HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	service, err := newPostService(cfg)
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	handler, err := web.NewHandler(cfg, service, log)
	if err != nil {
		return fmt.Errorf("handler setup failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return listenAndServe(ctx, log, cfg, handler)
}

// listenAndServe runs the server until ctx is done, then drains open
// requests for at most the configured shutdown timeout.
func listenAndServe(ctx context.Context, log *slog.Logger, cfg config.Config, handler http.Handler) error {
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("blog server listening", "addr", cfg.ListenAddr, "data_delay", cfg.DataDelay)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
