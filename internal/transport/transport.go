// Package transport defines the interface for email delivery backends.
package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkprime/forms-backend/internal/compose"
)

// Transport is the interface delivery backends must implement. Exactly one
// transport is selected at startup; each Deliver call is a single attempt
// with no retry, pooling, or session reuse.
type Transport interface {
	// Deliver sends a composed email to its destination mailbox.
	Deliver(ctx context.Context, email *compose.Email) error

	// Name returns the human-readable name of this transport.
	Name() string
}

// Delivery error kinds. Handlers collapse all of these to one generic
// user-facing message; the distinction exists for logs and metrics only.
var (
	// ErrConnect means the transport endpoint could not be reached or the
	// session could not be established.
	ErrConnect = errors.New("transport: connect failed")
	// ErrAuth means the server refused the configured credentials.
	ErrAuth = errors.New("transport: authentication failed")
	// ErrRejected means the server rejected the envelope or message data
	// mid-transaction.
	ErrRejected = errors.New("transport: message rejected")
	// ErrTimeout means the delivery attempt exceeded its time budget.
	ErrTimeout = errors.New("transport: delivery timed out")
)

// ProviderError reports a non-2xx response from a hosted email API. The
// body is capped by the transport before it gets here and must never be
// surfaced to end users.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("transport: provider rejected message: status %d: %s", e.StatusCode, e.Body)
}
