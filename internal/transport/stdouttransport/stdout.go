// Package stdouttransport is a development transport that logs the
// rendered message instead of sending it anywhere.
package stdouttransport

import (
	"context"
	"log/slog"

	"github.com/mkprime/forms-backend/internal/compose"
)

// Transport logs deliveries through a structured logger.
type Transport struct {
	log *slog.Logger
}

// New creates a stdout transport.
func New(log *slog.Logger) *Transport {
	return &Transport{log: log}
}

// Name returns the transport name.
func (t *Transport) Name() string {
	return "stdout"
}

// Deliver logs the message headers and size. Always succeeds.
func (t *Transport) Deliver(ctx context.Context, email *compose.Email) error {
	attrs := []any{
		slog.String("from", email.FromAddr),
		slog.String("to", email.To),
		slog.String("subject", email.Subject),
		slog.String("kind", email.KindLabel()),
		slog.Int("size_bytes", len(email.Bytes())),
	}
	if att := email.Attachment(); att != nil {
		attrs = append(attrs,
			slog.String("attachment", att.Filename),
			slog.Int("attachment_bytes", len(att.Content)),
		)
	}
	t.log.InfoContext(ctx, "stdout transport delivery", attrs...)
	return nil
}
