// Package sendgridtransport delivers composed emails through the SendGrid
// v3 mail send API: one HTTPS POST per message with a bearer-token
// credential.
package sendgridtransport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mkprime/forms-backend/internal/compose"
	"github.com/mkprime/forms-backend/internal/transport"
)

// maxErrorBody caps how much of a provider error response is kept for logs.
const maxErrorBody = 4096

// Config holds SendGrid API parameters.
type Config struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// Transport sends mail through the SendGrid v3 API.
type Transport struct {
	cfg    Config
	client *http.Client
}

// New creates a SendGrid transport.
func New(cfg Config) *Transport {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.sendgrid.com/v3/mail/send"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Transport{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// NewWithClient creates a transport with a custom HTTP client, used in tests.
func NewWithClient(cfg Config, client *http.Client) *Transport {
	t := New(cfg)
	t.client = client
	return t
}

// Name returns the transport name.
func (t *Transport) Name() string {
	return "sendgrid"
}

// v3 mail send envelope.
type sgMail struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	ReplyTo          *sgAddress          `json:"reply_to,omitempty"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
	Attachments      []sgAttachment      `json:"attachments,omitempty"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgAttachment struct {
	Content     string `json:"content"`
	Type        string `json:"type,omitempty"`
	Filename    string `json:"filename"`
	Disposition string `json:"disposition"`
}

// Deliver serializes the email into the SendGrid envelope and posts it.
// Any non-2xx response is a ProviderError carrying a bounded copy of the
// response body.
func (t *Transport) Deliver(ctx context.Context, email *compose.Email) error {
	payload := sgMail{
		Personalizations: []sgPersonalization{{To: []sgAddress{{Email: email.To}}}},
		From:             sgAddress{Email: email.FromAddr, Name: email.FromName},
		ReplyTo:          &sgAddress{Email: email.ReplyTo.Address, Name: email.ReplyTo.Name},
		Subject:          email.Subject,
		Content:          []sgContent{{Type: "text/html", Value: email.HTMLBody}},
	}
	if att := email.Attachment(); att != nil {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		payload.Attachments = []sgAttachment{{
			Content:     base64.StdEncoding.EncodeToString(att.Content),
			Type:        contentType,
			Filename:    att.Filename,
			Disposition: "attachment",
		}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode sendgrid payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", transport.ErrConnect, err)
	}
	req.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return fmt.Errorf("%w: %v", transport.ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", transport.ErrConnect, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &transport.ProviderError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}
	return nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
