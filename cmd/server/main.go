package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mkprime/forms-backend/internal/compose"
	"github.com/mkprime/forms-backend/internal/config"
	"github.com/mkprime/forms-backend/internal/form"
	"github.com/mkprime/forms-backend/internal/geo"
	"github.com/mkprime/forms-backend/internal/health"
	"github.com/mkprime/forms-backend/internal/logger"
	"github.com/mkprime/forms-backend/internal/metrics"
	appmw "github.com/mkprime/forms-backend/internal/middleware"
	"github.com/mkprime/forms-backend/internal/transport"
	"github.com/mkprime/forms-backend/internal/transport/sendgridtransport"
	"github.com/mkprime/forms-backend/internal/transport/sestransport"
	"github.com/mkprime/forms-backend/internal/transport/smtptransport"
	"github.com/mkprime/forms-backend/internal/transport/stdouttransport"
)

var version = "dev"

func main() {
	cfg := config.Load()
	log := logger.New(logger.DefaultConfig())
	slog.SetDefault(log)

	if cfg.Mail.To == "" {
		log.Error("MAIL_TO environment variable is required")
		os.Exit(1)
	}
	if cfg.Mail.From == "" {
		log.Error("MAIL_FROM environment variable is required")
		os.Exit(1)
	}

	mailTransport, err := buildTransport(cfg, log)
	if err != nil {
		log.Error("Failed to initialize mail transport",
			slog.String("provider", cfg.Mail.Provider),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	log.Info("Mail transport initialized", slog.String("transport", mailTransport.Name()))

	composer := compose.New(compose.Options{
		From:     cfg.Mail.From,
		FromName: cfg.Mail.FromName,
		To:       cfg.Mail.To,
		Brand:    cfg.Mail.Brand,
	})

	resolver := geo.New(geo.Config{
		Enabled:     cfg.Geo.Enabled,
		BaseURL:     cfg.Geo.BaseURL,
		Timeout:     cfg.Geo.Timeout,
		DefaultName: cfg.Mail.DefaultCountry,
		DefaultCode: cfg.Mail.DefaultCountryCode,
	}, log)

	validator := form.NewValidator(cfg.Upload.MaxCVSizeBytes, cfg.Upload.AllowedExtensions)
	service := form.NewService(validator, composer, mailTransport, resolver, log)
	formHandler := form.NewHandler(service, cfg.Upload.MaxCVSizeBytes, log)

	healthHandler := health.NewHandler(health.Config{
		TransportName: mailTransport.Name(),
		Version:       version,
	})

	rateLimiter := appmw.NewSubmissionRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(appmw.StructuredLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(chimw.Timeout(60 * time.Second))

	// The forms are posted from static site pages on arbitrary hosts, so
	// CORS stays permissive. Preflight OPTIONS gets 200 from the cors
	// handler.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:         300,
	}))

	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		form.RegisterRoutes(r, formHandler, rateLimiter.Handler)
	})

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Starting server", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	healthHandler.SetReady(false)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("Server exited")
}

// buildTransport selects the delivery strategy from configuration. Exactly
// one transport serves the whole process lifetime.
func buildTransport(cfg *config.Config, log *slog.Logger) (transport.Transport, error) {
	switch cfg.Mail.Provider {
	case "smtp":
		if cfg.SMTP.Host == "" {
			return nil, fmt.Errorf("SMTP_HOST is required for the smtp provider")
		}
		return smtptransport.New(smtptransport.Config{
			Host:           cfg.SMTP.Host,
			Port:           cfg.SMTP.Port,
			Username:       cfg.SMTP.Username,
			Password:       cfg.SMTP.Password,
			StartTLS:       cfg.SMTP.StartTLS,
			ConnectTimeout: cfg.SMTP.ConnectTimeout,
		}), nil
	case "sendgrid":
		if cfg.SendGrid.APIKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is required for the sendgrid provider")
		}
		return sendgridtransport.New(sendgridtransport.Config{
			APIKey:   cfg.SendGrid.APIKey,
			Endpoint: cfg.SendGrid.Endpoint,
			Timeout:  cfg.SendGrid.Timeout,
		}), nil
	case "ses":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return sestransport.New(ctx, sestransport.Config{
			Region:          cfg.SES.Region,
			AccessKeyID:     cfg.SES.AccessKeyID,
			SecretAccessKey: cfg.SES.SecretAccessKey,
		})
	case "stdout":
		return stdouttransport.New(log), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Mail.Provider)
	}
}

// methodNotAllowed answers non-POST, non-OPTIONS requests to form routes in
// the standard response shape.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Method not allowed",
	})
}
