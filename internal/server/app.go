package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"carprice/internal/config"
	"carprice/internal/features"
	"carprice/internal/metrics"
	"carprice/internal/model"
	"carprice/internal/registry"
)

// App owns everything a request handler needs: config, logger, metrics, and
// the loaded artifacts. It is constructed once at daemon startup and passed
// explicitly; nothing here is package-global.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	store   *registry.Store
	printer *message.Printer

	mu          sync.RWMutex
	transformer *features.Transformer
	forest      *model.ForestRegressor
	version     *registry.Version
}

// New resolves the serving model through the registry, loads the fitted
// transformer and forest from disk, and returns a ready application. Both
// artifacts are held read-only for the process lifetime unless Reload swaps
// them.
func New(cfg *config.Config, store *registry.Store, m *metrics.Metrics, logger *slog.Logger) (*App, error) {
	app := &App{
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "server")),
		metrics: m,
		store:   store,
		printer: message.NewPrinter(language.MustParse("en-IN")),
	}
	if err := app.loadArtifacts(context.Background()); err != nil {
		return nil, err
	}
	return app, nil
}

// Reload re-resolves the registry version and atomically swaps in freshly
// loaded artifacts. In-flight requests keep using the artifacts they
// started with; new requests see the swapped set.
func (a *App) Reload(ctx context.Context) error {
	err := a.loadArtifacts(ctx)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	a.metrics.ReloadCount.WithLabelValues(outcome).Inc()
	if err != nil {
		a.logger.Error("artifact reload failed", slog.Any("error", err))
		return err
	}
	a.mu.RLock()
	version := a.version
	a.mu.RUnlock()
	a.logger.Info("artifacts reloaded",
		slog.String("model", version.Name),
		slog.Int("version", version.Version))
	return nil
}

func (a *App) loadArtifacts(ctx context.Context) error {
	version, err := a.store.Resolve(ctx, a.cfg.Registry.ModelName)
	if err != nil {
		return fmt.Errorf("resolve model %q: %w", a.cfg.Registry.ModelName, err)
	}

	modelArtifact, err := model.LoadArtifact(version.ArtifactPath)
	if err != nil {
		return fmt.Errorf("load model version %d: %w", version.Version, err)
	}
	transformerArtifact, err := features.LoadArtifact(a.cfg.TransformerPath())
	if err != nil {
		return fmt.Errorf("load transformer: %w", err)
	}

	a.mu.Lock()
	a.transformer = transformerArtifact.Transformer
	a.forest = modelArtifact.Forest
	a.version = version
	a.mu.Unlock()

	a.logger.Info("serving artifacts loaded",
		slog.String("model", version.Name),
		slog.Int("version", version.Version),
		slog.String("stage", version.Stage),
		slog.String("run_id", modelArtifact.RunID))
	return nil
}

// artifacts returns the current artifact pair under the read lock.
func (a *App) artifacts() (*features.Transformer, *model.ForestRegressor) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.transformer, a.forest
}

// formatPrice renders a predicted price as an integer rupee amount with
// Indian digit grouping.
func (a *App) formatPrice(price float64) string {
	return a.printer.Sprintf("Predicted Price: ₹%d", int64(price))
}
