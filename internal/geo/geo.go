// Package geo resolves a visitor's country from their IP address using
// the ipapi.co JSON endpoint. Lookups are best-effort decoration: any
// failure falls back to configured defaults and never blocks a submission.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mkprime/forms-backend/internal/metrics"
)

// Country is a resolved visitor location.
type Country struct {
	Name string
	Code string
}

// Config holds lookup parameters.
type Config struct {
	// Enabled turns lookups off entirely when false.
	Enabled bool
	// BaseURL is the lookup service root, e.g. https://ipapi.co.
	BaseURL string
	// Timeout bounds each lookup request.
	Timeout time.Duration

	// DefaultName and DefaultCode are returned whenever a lookup is
	// skipped or fails.
	DefaultName string
	DefaultCode string
}

// Resolver performs country lookups. Safe for concurrent use.
type Resolver struct {
	cfg    Config
	client *http.Client
	log    *slog.Logger
}

// New creates a Resolver.
func New(cfg Config, log *slog.Logger) *Resolver {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://ipapi.co"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	return &Resolver{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// NewWithClient creates a Resolver with a custom HTTP client, used in tests.
func NewWithClient(cfg Config, client *http.Client, log *slog.Logger) *Resolver {
	r := New(cfg, log)
	r.client = client
	return r
}

type lookupResponse struct {
	CountryName string `json:"country_name"`
	CountryCode string `json:"country_code"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

// Lookup resolves the country for ip. Loopback, private, and unparsable
// addresses skip the remote call. Failures are logged at debug level and
// produce the configured defaults.
func (r *Resolver) Lookup(ctx context.Context, ip string) Country {
	fallback := Country{Name: r.cfg.DefaultName, Code: r.cfg.DefaultCode}

	if !r.cfg.Enabled || !isPublicIP(ip) {
		metrics.GeoLookupsTotal.WithLabelValues("skipped").Inc()
		return fallback
	}

	resolved, err := r.query(ctx, ip)
	if err != nil {
		metrics.GeoLookupsTotal.WithLabelValues("failed").Inc()
		r.log.DebugContext(ctx, "country lookup failed",
			slog.String("ip", ip),
			slog.String("error", err.Error()),
		)
		return fallback
	}
	metrics.GeoLookupsTotal.WithLabelValues("resolved").Inc()
	return resolved
}

func (r *Resolver) query(ctx context.Context, ip string) (Country, error) {
	url := strings.TrimRight(r.cfg.BaseURL, "/") + "/" + ip + "/json/"

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Country{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Country{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Country{}, fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Country{}, fmt.Errorf("decode lookup response: %w", err)
	}
	if body.Error {
		return Country{}, fmt.Errorf("lookup rejected: %s", body.Reason)
	}
	if body.CountryName == "" {
		return Country{}, fmt.Errorf("lookup returned empty country")
	}
	return Country{Name: body.CountryName, Code: body.CountryCode}, nil
}

// isPublicIP reports whether ip is a routable unicast address worth
// querying. Loopback, private ranges, and link-local addresses resolve to
// nothing useful.
func isPublicIP(ip string) bool {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return false
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() ||
		parsed.IsLinkLocalUnicast() || parsed.IsLinkLocalMulticast() {
		return false
	}
	return true
}
