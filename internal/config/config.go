package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Mail      MailConfig
	SMTP      SMTPConfig
	SendGrid  SendGridConfig
	SES       SESConfig
	Upload    UploadConfig
	Geo       GeoConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port string
}

// MailConfig holds the message envelope defaults shared by every transport.
type MailConfig struct {
	// Provider selects the delivery strategy: smtp, sendgrid, ses, or stdout.
	Provider string
	// From is the sender address notifications originate from.
	From string
	// FromName is the display name attached to the sender address.
	FromName string
	// To is the destination mailbox for form notifications.
	To string
	// Brand is the site name rendered into subjects and bodies.
	Brand string
	// DefaultCountry and DefaultCountryCode are used when visitor country
	// detection is unavailable or fails.
	DefaultCountry     string
	DefaultCountryCode string
}

// SMTPConfig holds direct SMTP delivery configuration
type SMTPConfig struct {
	Host           string
	Port           string
	Username       string
	Password       string
	StartTLS       bool
	ConnectTimeout time.Duration
}

// SendGridConfig holds SendGrid API delivery configuration
type SendGridConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// SESConfig holds AWS SES v2 delivery configuration
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// UploadConfig holds CV upload limits
type UploadConfig struct {
	// MaxCVSizeBytes is the attachment size ceiling (default 5 MiB).
	MaxCVSizeBytes int64
	// AllowedExtensions is the CV extension whitelist, lowercase without dots.
	AllowedExtensions []string
}

// GeoConfig holds visitor-country lookup configuration
type GeoConfig struct {
	Enabled bool
	BaseURL string
	Timeout time.Duration
}

// RateLimitConfig holds per-IP submission rate limiting
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Mail: MailConfig{
			Provider:           strings.ToLower(getEnv("MAIL_PROVIDER", "stdout")),
			From:               getEnv("MAIL_FROM", ""),
			FromName:           getEnv("MAIL_FROM_NAME", "MKPRIME"),
			To:                 getEnv("MAIL_TO", ""),
			Brand:              getEnv("MAIL_BRAND", "MKPRIME"),
			DefaultCountry:     getEnv("DEFAULT_COUNTRY", "Qatar"),
			DefaultCountryCode: getEnv("DEFAULT_COUNTRY_CODE", "QA"),
		},
		SMTP: SMTPConfig{
			Host:           getEnv("SMTP_HOST", ""),
			Port:           getEnv("SMTP_PORT", "587"),
			Username:       getEnv("SMTP_USERNAME", ""),
			Password:       getEnv("SMTP_PASSWORD", ""),
			StartTLS:       getBoolEnv("SMTP_STARTTLS", true),
			ConnectTimeout: getDurationEnv("SMTP_CONNECT_TIMEOUT", 30*time.Second),
		},
		SendGrid: SendGridConfig{
			APIKey:   getEnv("SENDGRID_API_KEY", ""),
			Endpoint: getEnv("SENDGRID_ENDPOINT", "https://api.sendgrid.com/v3/mail/send"),
			Timeout:  getDurationEnv("SENDGRID_TIMEOUT", 15*time.Second),
		},
		SES: SESConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Upload: UploadConfig{
			MaxCVSizeBytes:    getInt64Env("MAX_CV_SIZE_BYTES", 5*1024*1024),
			AllowedExtensions: getListEnv("ALLOWED_CV_EXTENSIONS", []string{"pdf", "doc", "docx"}),
		},
		Geo: GeoConfig{
			Enabled: getBoolEnv("GEO_LOOKUP_ENABLED", true),
			BaseURL: getEnv("GEO_LOOKUP_URL", "https://ipapi.co"),
			Timeout: getDurationEnv("GEO_LOOKUP_TIMEOUT", 3*time.Second),
		},
		RateLimit: RateLimitConfig{
			Requests: getIntEnv("FORM_RATE_LIMIT", 10),
			Window:   getDurationEnv("FORM_RATE_WINDOW", time.Minute),
		},
	}
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv returns an int from environment variable or default
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getInt64Env returns an int64 from environment variable or default
func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

// getBoolEnv returns a bool from environment variable or default
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultValue
}

// getDurationEnv returns a duration from environment variable or default.
// Accepts Go duration syntax ("30s", "2m") or a bare number of seconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getListEnv returns a comma-separated list from environment variable or default
func getListEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.ToLower(strings.TrimSpace(p))
			if p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
