package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/abgdnv/xmlcatalog/pkg/config"
	"github.com/abgdnv/xmlcatalog/pkg/logger"
	"github.com/abgdnv/xmlcatalog/pkg/messaging"
	"github.com/abgdnv/xmlcatalog/pkg/nats"
)

// NewLogger creates a new slog.Logger writing to stdout with the configured level and format.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	return NewLoggerTo(os.Stdout, cfg)
}

// NewLoggerTo is NewLogger with an explicit destination.
func NewLoggerTo(w io.Writer, cfg config.LogConfig) *slog.Logger {
	logLevel := toLevel(cfg.Level)
	loggerOpts := &slog.HandlerOptions{
		AddSource: logLevel == slog.LevelDebug,
		Level:     logLevel,
	}
	var logHandler slog.Handler
	if cfg.Format == "text" {
		logHandler = slog.NewTextHandler(w, loggerOpts)
	} else {
		logHandler = slog.NewJSONHandler(w, loggerOpts)
	}
	return slog.New(logger.NewContextHandler(logHandler))
}

// NewPublisher connects to NATS and returns a JetStream publisher for catalog events.
// When NATS is disabled it returns a publisher that drops events.
// The returned close function is never nil.
func NewPublisher(ctx context.Context, cfg config.NATSConfig, log *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Enabled {
		log.Info("NATS disabled, catalog events are not published")
		return messaging.NoopPublisher{}, func() {}, nil
	}
	nc, err := nats.NewClient(cfg.Url, cfg.Timeout)
	if err != nil {
		return nil, func() {}, err
	}
	jsCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	js, err := nats.NewJetStreamContext(jsCtx, nc)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to prepare catalog stream: %w", err)
	}
	log.Info("Publishing catalog events", "url", cfg.Url, "stream", nats.CatalogStream)
	return nats.NewNatsPublisher(js), func() {
		if err := nc.Drain(); err != nil {
			log.Error("Failed to drain NATS connection", "error", err)
		}
	}, nil
}

// toLevel converts a string representation of a log level to slog.Level.
func toLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
