package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/halcyon-labs/lookout/internal/anthropic"
	"github.com/halcyon-labs/lookout/internal/api"
	"github.com/halcyon-labs/lookout/internal/bus"
	"github.com/halcyon-labs/lookout/internal/config"
	"github.com/halcyon-labs/lookout/internal/engine"
	"github.com/halcyon-labs/lookout/internal/event"
	"github.com/halcyon-labs/lookout/internal/notify"
	"github.com/halcyon-labs/lookout/internal/pipeline"
	"github.com/halcyon-labs/lookout/internal/processor"
	"github.com/halcyon-labs/lookout/internal/producers"
	"github.com/halcyon-labs/lookout/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("lookout starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	// Event detector: LLM primary with deterministic keyword fallback.
	// Missing credentials degrade to fallback-only, never crash.
	var primary event.Detector
	if cfg.AnthropicAPIKey != "" {
		llm := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		primary = event.NewLLMDetector(llm, slog.Default())
		slog.Info("anthropic detector ready", "model", cfg.AnthropicModel)
	} else {
		slog.Warn("ANTHROPIC_API_KEY not set, running with keyword detection only")
	}
	detector := event.NewResilient(primary, event.NewKeywordDetector(), slog.Default())

	// Notifier is optional: lookout works without Slack, just no notices.
	var notifier pipeline.Notifier
	if cfg.SlackWebhookURL != "" {
		notifier = notify.NewSlackPoster(cfg.SlackWebhookURL, slog.Default())
		slog.Info("slack notifier ready")
	} else {
		slog.Warn("slack not configured, running without critical alert notices")
	}

	// Decision engine and emission pipeline
	eng := engine.New(nil)
	pipe := pipeline.New(db, db, eng, notifier, slog.Default())
	prod := producers.New(pipe)
	proc := processor.New(pipe, prod, detector, slog.Default())

	// NATS ingress
	busClient, err := bus.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer busClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	subscriptions := map[string]func(string, []byte){
		bus.SubjectPortfolioReport:  proc.HandlePortfolioReport,
		bus.SubjectRetirementReport: proc.HandleRetirementReport,
		bus.SubjectPriceUpdate:      proc.HandlePriceUpdate,
		bus.SubjectEarningsUpdate:   proc.HandleEarningsUpdate,
		bus.SubjectStaleResearch:    proc.HandleStaleResearch,
	}
	for subject, handler := range subscriptions {
		if err := busClient.Subscribe(subject, handler); err != nil {
			slog.Error("failed to subscribe", "subject", subject, "error", err)
			os.Exit(1)
		}
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, db, db, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if err := busClient.Publish(bus.SubjectRegistered, map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      cfg.Port,
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("lookout ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("lookout stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
