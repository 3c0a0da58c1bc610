package form

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/mkprime/forms-backend/internal/logger"
	"github.com/mkprime/forms-backend/internal/middleware"
)

// multipartMemoryLimit is how much of a multipart body is held in memory
// before spilling to temp files.
const multipartMemoryLimit = 8 << 20

// Response is the wire shape of every form endpoint reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Handler handles the public form intake endpoints
type Handler struct {
	service *Service
	logger  *slog.Logger
	// maxBodyBytes caps the request body. It sits above the CV size limit
	// so an oversized CV reaches the validator and gets the file-size
	// message rather than an opaque body-too-large failure.
	maxBodyBytes int64
}

// NewHandler creates a new Handler instance
func NewHandler(service *Service, maxCVSize int64, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		service:      service,
		logger:       log,
		maxBodyBytes: maxCVSize + 2<<20,
	}
}

// SubmitInquiry handles POST /api/contact
func (h *Handler) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	log := logger.WithRequestID(r.Context(), h.logger)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req InquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.service.SubmitInquiry(r.Context(), &req, middleware.ClientIP(r))
	h.writeResult(w, log, err, "Message sent successfully")
}

// SubmitApplication handles POST /api/job-application
func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	log := logger.WithRequestID(r.Context(), h.logger)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		if maxBytesExceeded(err) {
			writeResponse(w, http.StatusBadRequest, "File size too large. Maximum 5MB")
			return
		}
		writeResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := &ApplicationRequest{
		Name:                r.FormValue("name"),
		Email:               r.FormValue("email"),
		Phone:               r.FormValue("phone"),
		Nationality:         r.FormValue("nationality"),
		CurrentCountry:      r.FormValue("currentCountry"),
		WhyHireYou:          r.FormValue("whyHireYou"),
		DetectedCountry:     r.FormValue("detectedCountry"),
		DetectedCountryCode: r.FormValue("detectedCountryCode"),
	}

	cv, err := readCVFile(r)
	if err != nil {
		log.Warn("Failed to read CV upload", slog.String("error", err.Error()))
		writeResponse(w, http.StatusBadRequest, "CV file is required")
		return
	}
	req.CV = cv

	err = h.service.SubmitApplication(r.Context(), req, middleware.ClientIP(r))
	h.writeResult(w, log, err, "Application submitted successfully")
}

// readCVFile pulls the cv part out of the parsed multipart form. A missing
// part is not an error here; the validator reports it with the proper
// message.
func readCVFile(r *http.Request) (*CVFile, error) {
	file, header, err := r.FormFile("cv")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &CVFile{
		Filename:    filepath.Base(header.Filename),
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     content,
	}, nil
}

// writeResult maps a pipeline outcome to the response contract: nil → 200,
// validation failure → 400 with its message, anything else → 500 with a
// generic message. Delivery detail never leaves the log.
func (h *Handler) writeResult(w http.ResponseWriter, log *slog.Logger, err error, successMessage string) {
	if err == nil {
		writeResponse(w, http.StatusOK, successMessage)
		return
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		writeResponse(w, http.StatusBadRequest, verr.Message)
		return
	}

	log.Error("Form submission failed", slog.String("error", err.Error()))
	writeResponse(w, http.StatusInternalServerError, "Failed to send email. Please try again later.")
}

// writeResponse writes the standard form response
func writeResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Response{
		Success: statusCode < 400,
		Message: message,
	})
}

// maxBytesExceeded reports whether err came from the MaxBytesReader cap.
func maxBytesExceeded(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
