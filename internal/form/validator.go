package form

import (
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxEmailLength is the maximum total address length per RFC 5321
	MaxEmailLength = 320
	// MaxLocalPartLength is the maximum local part length per RFC 5321
	MaxLocalPartLength = 64
	// MaxDomainLength is the maximum domain length per RFC 5321
	MaxDomainLength = 255
)

// Validator instance for request validation
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// FieldValidator checks submissions field by field and reports the first
// failure. Messages are user-facing and written into responses verbatim.
type FieldValidator struct {
	maxCVSize  int64
	extensions map[string]bool
}

// NewValidator creates a FieldValidator with the given CV limits.
func NewValidator(maxCVSize int64, allowedExtensions []string) *FieldValidator {
	exts := make(map[string]bool, len(allowedExtensions))
	for _, e := range allowedExtensions {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	return &FieldValidator{maxCVSize: maxCVSize, extensions: exts}
}

// ValidateInquiry checks a contact submission in field order. The first
// failing field decides the error; later fields are not inspected.
func (v *FieldValidator) ValidateInquiry(req *InquiryRequest) *ValidationError {
	if strings.TrimSpace(req.Name) == "" {
		return &ValidationError{Message: "Name is required"}
	}
	if !v.validEmail(req.Email) {
		return &ValidationError{Message: "Valid email is required"}
	}
	if strings.TrimSpace(req.Phone) == "" {
		return &ValidationError{Message: "Phone number is required"}
	}
	if strings.TrimSpace(req.Message) == "" {
		return &ValidationError{Message: "Message is required"}
	}
	return nil
}

// ValidateApplication checks a job application in field order, finishing
// with the CV upload.
func (v *FieldValidator) ValidateApplication(req *ApplicationRequest) *ValidationError {
	if strings.TrimSpace(req.Name) == "" {
		return &ValidationError{Message: "Name is required"}
	}
	if !v.validEmail(req.Email) {
		return &ValidationError{Message: "Valid email is required"}
	}
	if strings.TrimSpace(req.Phone) == "" {
		return &ValidationError{Message: "Phone number is required"}
	}
	if strings.TrimSpace(req.Nationality) == "" {
		return &ValidationError{Message: "Nationality is required"}
	}
	if strings.TrimSpace(req.CurrentCountry) == "" {
		return &ValidationError{Message: "Current country is required"}
	}
	if strings.TrimSpace(req.WhyHireYou) == "" {
		return &ValidationError{Message: "Please tell us why we should hire you"}
	}
	return v.validateCV(req.CV)
}

func (v *FieldValidator) validateCV(cv *CVFile) *ValidationError {
	if cv == nil || cv.Filename == "" {
		return &ValidationError{Message: "CV file is required"}
	}
	if cv.Size > v.maxCVSize || int64(len(cv.Content)) > v.maxCVSize {
		return &ValidationError{Message: "File size too large. Maximum 5MB"}
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(cv.Filename), "."))
	if !v.extensions[ext] {
		return &ValidationError{Message: "Only PDF and DOC files are allowed"}
	}
	if len(cv.Content) == 0 {
		return &ValidationError{Message: "CV file is required"}
	}
	return nil
}

// validEmail applies RFC 5321 shape and length checks: syntactic format via
// the validator tag plus a dotted domain and per-part length limits.
func (v *FieldValidator) validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > MaxEmailLength {
		return false
	}
	if err := validate.Var(email, "email"); err != nil {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	local, domain := email[:at], email[at+1:]
	if len(local) > MaxLocalPartLength || len(domain) > MaxDomainLength {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	return true
}

// ContentTypeForExtension maps a CV extension to the MIME type used in the
// attachment part.
func ContentTypeForExtension(filename string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "pdf":
		return "application/pdf"
	case "doc":
		return "application/msword"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
