package form

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkprime/forms-backend/internal/compose"
	"github.com/mkprime/forms-backend/internal/geo"
	"github.com/mkprime/forms-backend/internal/metrics"
	"github.com/mkprime/forms-backend/internal/transport"
)

// Service runs the intake pipeline: validate, resolve visitor country,
// compose the notification email, deliver. Each submission is independent;
// nothing is persisted and failed deliveries are not retried.
type Service struct {
	validator *FieldValidator
	composer  *compose.Composer
	transport transport.Transport
	resolver  *geo.Resolver
	logger    *slog.Logger
}

// NewService creates a Service.
func NewService(validator *FieldValidator, composer *compose.Composer, t transport.Transport, resolver *geo.Resolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		validator: validator,
		composer:  composer,
		transport: t,
		resolver:  resolver,
		logger:    logger,
	}
}

// SubmitInquiry processes a contact form submission. A *ValidationError
// return carries a user-facing message; any other error is a delivery
// failure whose detail belongs in logs only.
func (s *Service) SubmitInquiry(ctx context.Context, req *InquiryRequest, clientIP string) error {
	if verr := s.validator.ValidateInquiry(req); verr != nil {
		metrics.RecordSubmission("inquiry", "validation_failed")
		return verr
	}

	country := s.resolveCountry(ctx, req.VisitorCountry, req.VisitorCountryCode, clientIP)

	msg := &compose.Message{
		Kind:        compose.KindInquiry,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Body:        req.Message,
		Country:     country.Name,
		CountryCode: country.Code,
	}

	return s.deliver(ctx, msg, "inquiry")
}

// SubmitApplication processes a job application, attaching the CV to the
// notification email.
func (s *Service) SubmitApplication(ctx context.Context, req *ApplicationRequest, clientIP string) error {
	if verr := s.validator.ValidateApplication(req); verr != nil {
		metrics.RecordSubmission("application", "validation_failed")
		return verr
	}

	country := s.resolveCountry(ctx, req.DetectedCountry, req.DetectedCountryCode, clientIP)

	msg := &compose.Message{
		Kind:           compose.KindApplication,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Body:           req.WhyHireYou,
		Nationality:    req.Nationality,
		CurrentCountry: req.CurrentCountry,
		Country:        country.Name,
		CountryCode:    country.Code,
		Attachment: &compose.Attachment{
			Filename:    req.CV.Filename,
			ContentType: ContentTypeForExtension(req.CV.Filename),
			Content:     req.CV.Content,
		},
	}

	return s.deliver(ctx, msg, "application")
}

// resolveCountry prefers the frontend-supplied hint over a server-side IP
// lookup; the resolver itself falls back to configured defaults.
func (s *Service) resolveCountry(ctx context.Context, hintName, hintCode, clientIP string) geo.Country {
	if hintName != "" {
		return geo.Country{Name: hintName, Code: hintCode}
	}
	return s.resolver.Lookup(ctx, clientIP)
}

// deliver composes and sends the notification for a validated message.
func (s *Service) deliver(ctx context.Context, msg *compose.Message, kind string) error {
	email, err := s.composer.Compose(msg)
	if err != nil {
		metrics.RecordSubmission(kind, "delivery_failed")
		s.logger.Error("Failed to compose notification email",
			slog.String("kind", kind),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	start := time.Now()
	err = s.transport.Deliver(ctx, email)
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordDelivery(s.transport.Name(), "failed", elapsed)
		metrics.RecordSubmission(kind, "delivery_failed")
		s.logger.Error("Failed to deliver notification email",
			slog.String("kind", kind),
			slog.String("transport", s.transport.Name()),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	metrics.RecordDelivery(s.transport.Name(), "delivered", elapsed)
	metrics.RecordSubmission(kind, "accepted")
	s.logger.Info("Notification email delivered",
		slog.String("kind", kind),
		slog.String("transport", s.transport.Name()),
		slog.String("subject", email.Subject),
		slog.Duration("duration", elapsed),
	)
	return nil
}
