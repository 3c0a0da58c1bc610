// Package smtptransport delivers composed emails over a direct SMTP
// session: dial, EHLO, optional STARTTLS, AUTH LOGIN, MAIL FROM, RCPT TO,
// DATA, QUIT. One connection per message.
package smtptransport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"time"

	"github.com/mkprime/forms-backend/internal/compose"
	"github.com/mkprime/forms-backend/internal/transport"
)

// Config holds SMTP session parameters.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	// StartTLS upgrades the session with STARTTLS before authenticating.
	StartTLS bool
	// ConnectTimeout bounds the dial and, absent a context deadline, the
	// whole session.
	ConnectTimeout time.Duration
}

// Transport sends mail through a configured SMTP relay.
type Transport struct {
	cfg Config
}

// New creates an SMTP transport.
func New(cfg Config) *Transport {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 30 * time.Second
	}
	return &Transport{cfg: cfg}
}

// Name returns the transport name.
func (t *Transport) Name() string {
	return "smtp"
}

// Deliver runs one SMTP transaction for the message. Failures are
// classified: dial/session setup → ErrConnect, AUTH → ErrAuth, envelope or
// data rejection → ErrRejected, deadline overrun → ErrTimeout.
func (t *Transport) Deliver(ctx context.Context, email *compose.Email) error {
	addr := net.JoinHostPort(t.cfg.Host, t.cfg.Port)

	conn, err := net.DialTimeout("tcp", addr, t.cfg.ConnectTimeout)
	if err != nil {
		return classify(transport.ErrConnect, err)
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(t.cfg.ConnectTimeout)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return classify(transport.ErrConnect, err)
	}

	client, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		return classify(transport.ErrConnect, err)
	}
	defer client.Quit()

	if t.cfg.StartTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			tlsCfg := &tls.Config{ServerName: t.cfg.Host}
			if err := client.StartTLS(tlsCfg); err != nil {
				return classify(transport.ErrConnect, err)
			}
		}
	}

	if t.cfg.Username != "" && t.cfg.Password != "" {
		auth := newLoginAuth(t.cfg.Username, t.cfg.Password, t.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return classify(transport.ErrAuth, err)
		}
	}

	if err := client.Mail(email.FromAddr); err != nil {
		return classify(transport.ErrRejected, err)
	}
	for _, rcpt := range email.Recipients() {
		if err := client.Rcpt(rcpt); err != nil {
			return classify(transport.ErrRejected, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return classify(transport.ErrRejected, err)
	}
	if _, err := w.Write(email.Bytes()); err != nil {
		return classify(transport.ErrRejected, err)
	}
	if err := w.Close(); err != nil {
		return classify(transport.ErrRejected, err)
	}

	return nil
}

// classify wraps err with the given kind, upgrading network timeouts to
// ErrTimeout so callers can tell a slow relay from a rejecting one.
func classify(kind error, err error) error {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		kind = transport.ErrTimeout
	}
	if protoErr, ok := err.(*textproto.Error); ok {
		return fmt.Errorf("%w: %d %s", kind, protoErr.Code, protoErr.Msg)
	}
	return fmt.Errorf("%w: %v", kind, err)
}
