// Command carpriced serves car price predictions: a form page on /, the
// single-row predict endpoint on /predict, and prometheus exposition on
// /metrics. Artifacts load once at startup; SIGHUP triggers an explicit
// reload through the registry.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"carprice/internal/config"
	"carprice/internal/logging"
	"carprice/internal/metrics"
	"carprice/internal/registry"
	"carprice/internal/server"
)

func main() {
	configFlag := flag.String("config", "", "Configuration file path")
	flag.Parse()

	if err := run(*configFlag); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// The registry credential is a hard startup requirement for serving.
	if err := cfg.ValidateServing(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg, "carpriced")
	if err != nil {
		return err
	}

	store, err := registry.Open(cfg.RegistryPath())
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.New()
	app, err := server.New(cfg, store, m, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.Paths.HTTPBind,
		Handler: app.Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for range reload {
			// Failures keep the current artifacts serving.
			_ = app.Reload(context.Background())
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("daemon listening", slog.String("bind", cfg.Paths.HTTPBind))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("daemon shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
