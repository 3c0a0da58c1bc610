package form

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mkprime/forms-backend/internal/compose"
	"github.com/mkprime/forms-backend/internal/geo"
	"github.com/mkprime/forms-backend/internal/transport"
)

const maxCVSize = 5 * 1024 * 1024

// stubTransport records deliveries or fails with a fixed error.
type stubTransport struct {
	err       error
	delivered []*compose.Email
}

func (s *stubTransport) Deliver(ctx context.Context, email *compose.Email) error {
	if s.err != nil {
		return s.err
	}
	s.delivered = append(s.delivered, email)
	return nil
}

func (s *stubTransport) Name() string { return "stub" }

func newTestHandler(t *testing.T, tr transport.Transport) *Handler {
	t.Helper()

	log := slog.New(slog.DiscardHandler)
	composer := compose.New(compose.Options{
		From:     "noreply@example.com",
		FromName: "MKPRIME",
		To:       "inbox@example.com",
		Brand:    "MKPRIME",
	})
	resolver := geo.New(geo.Config{
		Enabled:     false,
		DefaultName: "Qatar",
		DefaultCode: "QA",
	}, log)
	validator := NewValidator(maxCVSize, []string{"pdf", "doc", "docx"})
	service := NewService(validator, composer, tr, resolver, log)
	return NewHandler(service, maxCVSize, log)
}

func newTestRouter(t *testing.T, tr transport.Transport) http.Handler {
	t.Helper()

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(Response{Success: false, Message: "Method not allowed"})
	})
	r.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, newTestHandler(t, tr), nil)
	})
	return r
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not the expected JSON shape: %v (body: %s)", err, rec.Body.String())
	}
	return resp
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.9:52100"

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestContactSubmissionDelivered(t *testing.T) {
	tr := &stubTransport{}
	router := newTestRouter(t, tr)

	rec := postJSON(t, router, "/api/contact", map[string]string{
		"name":    "John Doe",
		"email":   "john@example.com",
		"phone":   "+97455551234",
		"message": "I would like a quote.",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if resp.Message != "Message sent successfully" {
		t.Errorf("message = %q, want %q", resp.Message, "Message sent successfully")
	}

	if len(tr.delivered) != 1 {
		t.Fatalf("delivered %d emails, want 1", len(tr.delivered))
	}
	email := tr.delivered[0]
	if !strings.Contains(email.Subject, "New Inquiry from John Doe") {
		t.Errorf("subject = %q, want it to name the sender", email.Subject)
	}
	if email.ReplyTo.Address != "john@example.com" {
		t.Errorf("reply-to = %q, want the submitter address", email.ReplyTo.Address)
	}
	if email.To != "inbox@example.com" {
		t.Errorf("to = %q, want the configured mailbox", email.To)
	}
}

func TestContactMissingEmail(t *testing.T) {
	tr := &stubTransport{}
	router := newTestRouter(t, tr)

	rec := postJSON(t, router, "/api/contact", map[string]string{
		"name":    "John Doe",
		"phone":   "+97455551234",
		"message": "Hello",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Error("success = true, want false")
	}
	if resp.Message != "Valid email is required" {
		t.Errorf("message = %q, want %q", resp.Message, "Valid email is required")
	}
	if len(tr.delivered) != 0 {
		t.Error("nothing should be delivered for an invalid submission")
	}
}

func TestContactMalformedJSON(t *testing.T) {
	router := newTestRouter(t, &stubTransport{})

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Message != "Invalid request body" {
		t.Errorf("message = %q, want %q", resp.Message, "Invalid request body")
	}
}

func TestContactDeliveryFailure(t *testing.T) {
	tr := &stubTransport{err: fmt.Errorf("%w: 550 mailbox unavailable", transport.ErrRejected)}
	router := newTestRouter(t, tr)

	rec := postJSON(t, router, "/api/contact", map[string]string{
		"name":    "John Doe",
		"email":   "john@example.com",
		"phone":   "+97455551234",
		"message": "Hello",
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Error("success = true, want false")
	}
	if resp.Message != "Failed to send email. Please try again later." {
		t.Errorf("message = %q, want the generic failure message", resp.Message)
	}
	if strings.Contains(resp.Message, "550") || strings.Contains(rec.Body.String(), "mailbox") {
		t.Error("transport detail must not leak into the response")
	}
}

func multipartApplication(t *testing.T, fields map[string]string, cvName string, cvContent []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if cvName != "" {
		fw, err := w.CreateFormFile("cv", cvName)
		if err != nil {
			t.Fatalf("create cv part: %v", err)
		}
		if _, err := fw.Write(cvContent); err != nil {
			t.Fatalf("write cv content: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func applicationFields() map[string]string {
	return map[string]string{
		"name":           "Jane Smith",
		"email":          "jane@example.com",
		"phone":          "+97455551234",
		"nationality":    "Jordanian",
		"currentCountry": "Qatar",
		"whyHireYou":     "I have five years of experience.",
	}
}

func postMultipart(t *testing.T, router http.Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/job-application", body)
	req.Header.Set("Content-Type", contentType)
	req.RemoteAddr = "203.0.113.9:52100"

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestApplicationSubmissionDelivered(t *testing.T) {
	tr := &stubTransport{}
	router := newTestRouter(t, tr)

	body, contentType := multipartApplication(t, applicationFields(), "cv.pdf", []byte("fake pdf content"))
	rec := postMultipart(t, router, body, contentType)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if resp.Message != "Application submitted successfully" {
		t.Errorf("message = %q, want the application success message", resp.Message)
	}

	if len(tr.delivered) != 1 {
		t.Fatalf("delivered %d emails, want 1", len(tr.delivered))
	}
	email := tr.delivered[0]
	if !strings.Contains(email.Subject, "New Job Application from Jane Smith") {
		t.Errorf("subject = %q, want the application subject", email.Subject)
	}
	att := email.Attachment()
	if att == nil {
		t.Fatal("delivered email has no attachment")
	}
	if att.Filename != "cv.pdf" || string(att.Content) != "fake pdf content" {
		t.Errorf("attachment = %s (%d bytes), want cv.pdf with the uploaded content", att.Filename, len(att.Content))
	}
}

func TestApplicationOversizedCV(t *testing.T) {
	tr := &stubTransport{}
	router := newTestRouter(t, tr)

	big := make([]byte, 6*1024*1024)
	body, contentType := multipartApplication(t, applicationFields(), "cv.pdf", big)
	rec := postMultipart(t, router, body, contentType)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if resp.Message != "File size too large. Maximum 5MB" {
		t.Errorf("message = %q, want the file-size message", resp.Message)
	}
	if len(tr.delivered) != 0 {
		t.Error("oversized CV must not be delivered")
	}
}

func TestApplicationMissingCV(t *testing.T) {
	router := newTestRouter(t, &stubTransport{})

	body, contentType := multipartApplication(t, applicationFields(), "", nil)
	rec := postMultipart(t, router, body, contentType)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Message != "CV file is required" {
		t.Errorf("message = %q, want %q", resp.Message, "CV file is required")
	}
}

func TestApplicationWrongExtension(t *testing.T) {
	router := newTestRouter(t, &stubTransport{})

	body, contentType := multipartApplication(t, applicationFields(), "cv.exe", []byte("MZ"))
	rec := postMultipart(t, router, body, contentType)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Message != "Only PDF and DOC files are allowed" {
		t.Errorf("message = %q, want the extension message", resp.Message)
	}
}

func TestPreflightOptionsAllowed(t *testing.T) {
	router := newTestRouter(t, &stubTransport{})

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("preflight status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, &stubTransport{})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/contact", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s status = %d, want 405", method, rec.Code)
		}
	}
}

func TestApplicationCountryHintSkipsLookup(t *testing.T) {
	tr := &stubTransport{}
	router := newTestRouter(t, tr)

	fields := applicationFields()
	fields["detectedCountry"] = "Jordan"
	fields["detectedCountryCode"] = "JO"

	body, contentType := multipartApplication(t, fields, "cv.pdf", []byte("fake pdf"))
	rec := postMultipart(t, router, body, contentType)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if len(tr.delivered) != 1 {
		t.Fatalf("delivered %d emails, want 1", len(tr.delivered))
	}
	if !strings.Contains(tr.delivered[0].HTMLBody, "Jordan") {
		t.Error("delivered email should render the hinted country")
	}
}

func TestResponseShape(t *testing.T) {
	router := newTestRouter(t, &stubTransport{})

	rec := postJSON(t, router, "/api/contact", map[string]string{"name": ""})

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if len(raw) != 2 {
		t.Errorf("response has %d fields, want exactly success and message", len(raw))
	}
	if _, ok := raw["success"].(bool); !ok {
		t.Error("success field missing or not a bool")
	}
	if _, ok := raw["message"].(string); !ok {
		t.Error("message field missing or not a string")
	}
}
