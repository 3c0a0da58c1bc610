// Package logger provides structured JSON logging for the forms backend.
// Delivery failures are logged here in full; the HTTP layer only ever
// returns a generic message, so the log is the single place transport
// detail (hosts, status codes, provider bodies) is allowed to appear.
// Credentials are redacted even from the log.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Config holds logger configuration
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string
	// Format is the log format (json, text)
	Format string
	// Output is the log output destination (stdout, stderr, or file path)
	Output string
}

// DefaultConfig returns the logger configuration from environment variables
func DefaultConfig() Config {
	return Config{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
		Output: getEnv("LOG_OUTPUT", "stdout"),
	}
}

// New creates a structured logger based on configuration
func New(cfg Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			output = os.Stdout
		} else {
			output = file
		}
	}

	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactSecrets,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	return slog.New(handler)
}

// secretKeys lists attribute names that must never reach the log verbatim.
var secretKeys = map[string]bool{
	"password":      true,
	"smtp_password": true,
	"api_key":       true,
	"apikey":        true,
	"authorization": true,
	"bearer":        true,
	"secret":        true,
	"credential":    true,
	"credentials":   true,
	"access_key":    true,
	"secret_key":    true,
}

// redactSecrets masks credential-bearing attributes
func redactSecrets(groups []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	if secretKeys[key] {
		return slog.String(a.Key, "[REDACTED]")
	}
	for secret := range secretKeys {
		if strings.Contains(key, secret) {
			return slog.String(a.Key, "[REDACTED]")
		}
	}
	return a
}

// WithRequestID returns a logger carrying the chi request ID from context,
// so every line emitted while handling one submission can be correlated.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		return logger.With(slog.String("request_id", reqID))
	}
	return logger
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
