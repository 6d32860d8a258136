package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"videosummary_backend/internal/events"
	apphttp "videosummary_backend/internal/http"
	"videosummary_backend/internal/http/router"
	"videosummary_backend/internal/summarize"
	"videosummary_backend/platform/config"
	"videosummary_backend/platform/logger"
	"videosummary_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "model", cfg.GeminiModel)

	if cfg.GoogleAPIKey == "" {
		log.Warn("GOOGLE_API_KEY is not set; requests must supply their own api_key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	registerAuditHandlers(eventBus, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	summarizeModule := summarize.NewModule(cfg, eventBus, val, log)

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Modules: []apphttp.Module{
			summarizeModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// registerAuditHandlers logs summary lifecycle events published by the
// orchestrator. Results themselves are never persisted.
func registerAuditHandlers(bus events.Bus, log *logger.Logger) {
	bus.Subscribe(events.SummaryRequestCompleted{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			if e, ok := event.(events.SummaryRequestCompleted); ok {
				log.Info("summary completed",
					"request_id", e.RequestID,
					"style", e.Style,
					"output_chars", e.OutputChars,
					"duration_ms", e.DurationMs,
				)
			}
			return nil
		}))

	bus.Subscribe(events.SummaryRequestFailed{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			if e, ok := event.(events.SummaryRequestFailed); ok {
				log.Warn("summary failed",
					"request_id", e.RequestID,
					"style", e.Style,
					"kind", e.Kind,
					"reason", e.Reason,
					"duration_ms", e.DurationMs,
				)
			}
			return nil
		}))
}
