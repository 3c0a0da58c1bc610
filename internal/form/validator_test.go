package form

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func newTestValidator() *FieldValidator {
	return NewValidator(5*1024*1024, []string{"pdf", "doc", "docx"})
}

func validInquiry() *InquiryRequest {
	return &InquiryRequest{
		Name:    "John Doe",
		Email:   "john@example.com",
		Phone:   "+97455551234",
		Message: "I would like a quote.",
	}
}

func validApplication() *ApplicationRequest {
	return &ApplicationRequest{
		Name:           "Jane Smith",
		Email:          "jane@example.com",
		Phone:          "+97455551234",
		Nationality:    "Jordanian",
		CurrentCountry: "Qatar",
		WhyHireYou:     "I have five years of experience.",
		CV: &CVFile{
			Filename:    "cv.pdf",
			ContentType: "application/pdf",
			Size:        1024,
			Content:     []byte("fake pdf"),
		},
	}
}

func TestValidateInquiryAccepted(t *testing.T) {
	if err := newTestValidator().ValidateInquiry(validInquiry()); err != nil {
		t.Errorf("valid inquiry rejected: %v", err)
	}
}

func TestValidateInquiryFirstFailureWins(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		mutate  func(*InquiryRequest)
		wantMsg string
	}{
		{"missing name", func(r *InquiryRequest) { r.Name = "" }, "Name is required"},
		{"whitespace name", func(r *InquiryRequest) { r.Name = "   " }, "Name is required"},
		{"missing email", func(r *InquiryRequest) { r.Email = "" }, "Valid email is required"},
		{"malformed email", func(r *InquiryRequest) { r.Email = "not-an-email" }, "Valid email is required"},
		{"email without dotted domain", func(r *InquiryRequest) { r.Email = "a@localhost" }, "Valid email is required"},
		{"missing phone", func(r *InquiryRequest) { r.Phone = "" }, "Phone number is required"},
		{"missing message", func(r *InquiryRequest) { r.Message = "" }, "Message is required"},
		{
			"name reported before email",
			func(r *InquiryRequest) { r.Name = ""; r.Email = "bad" },
			"Name is required",
		},
		{
			"email reported before phone",
			func(r *InquiryRequest) { r.Email = ""; r.Phone = "" },
			"Valid email is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validInquiry()
			tt.mutate(req)

			err := v.ValidateInquiry(req)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if err.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Message, tt.wantMsg)
			}
		})
	}
}

func TestValidateApplicationFirstFailureWins(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		mutate  func(*ApplicationRequest)
		wantMsg string
	}{
		{"missing name", func(r *ApplicationRequest) { r.Name = "" }, "Name is required"},
		{"missing email", func(r *ApplicationRequest) { r.Email = "" }, "Valid email is required"},
		{"missing phone", func(r *ApplicationRequest) { r.Phone = "" }, "Phone number is required"},
		{"missing nationality", func(r *ApplicationRequest) { r.Nationality = "" }, "Nationality is required"},
		{"missing current country", func(r *ApplicationRequest) { r.CurrentCountry = "" }, "Current country is required"},
		{"missing why hire you", func(r *ApplicationRequest) { r.WhyHireYou = "" }, "Please tell us why we should hire you"},
		{"missing cv", func(r *ApplicationRequest) { r.CV = nil }, "CV file is required"},
		{
			"oversized cv",
			func(r *ApplicationRequest) { r.CV.Size = 6 * 1024 * 1024 },
			"File size too large. Maximum 5MB",
		},
		{
			"oversized cv content",
			func(r *ApplicationRequest) { r.CV.Content = make([]byte, 6*1024*1024) },
			"File size too large. Maximum 5MB",
		},
		{
			"wrong extension",
			func(r *ApplicationRequest) { r.CV.Filename = "cv.exe" },
			"Only PDF and DOC files are allowed",
		},
		{
			"empty cv content",
			func(r *ApplicationRequest) { r.CV.Content = nil },
			"CV file is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validApplication()
			tt.mutate(req)

			err := v.ValidateApplication(req)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if err.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Message, tt.wantMsg)
			}
		})
	}
}

func TestValidateApplicationAccepted(t *testing.T) {
	v := newTestValidator()

	for _, filename := range []string{"cv.pdf", "cv.doc", "cv.docx", "CV.PDF", "resume.Doc"} {
		req := validApplication()
		req.CV.Filename = filename
		if err := v.ValidateApplication(req); err != nil {
			t.Errorf("filename %q rejected: %v", filename, err)
		}
	}
}

func TestValidEmailLengthLimits(t *testing.T) {
	v := newTestValidator()

	longLocal := strings.Repeat("a", MaxLocalPartLength+1) + "@example.com"
	if v.validEmail(longLocal) {
		t.Error("local part over the RFC 5321 limit should be rejected")
	}

	maxLocal := strings.Repeat("a", MaxLocalPartLength) + "@example.com"
	if !v.validEmail(maxLocal) {
		t.Error("local part at the RFC 5321 limit should be accepted")
	}
}

// Whatever the input, validation must either accept or produce one of the
// known user-facing messages; it must never panic or leak anything else.
func TestValidateInquiryArbitraryInput(t *testing.T) {
	v := newTestValidator()

	knownMessages := map[string]bool{
		"Name is required":         true,
		"Valid email is required":  true,
		"Phone number is required": true,
		"Message is required":      true,
	}

	rapid.Check(t, func(t *rapid.T) {
		req := &InquiryRequest{
			Name:    rapid.StringN(0, 100, 100).Draw(t, "name"),
			Email:   rapid.StringN(0, 100, 100).Draw(t, "email"),
			Phone:   rapid.StringN(0, 40, 40).Draw(t, "phone"),
			Message: rapid.StringN(0, 500, 500).Draw(t, "message"),
		}

		err := v.ValidateInquiry(req)
		if err != nil && !knownMessages[err.Message] {
			t.Fatalf("unexpected validation message %q", err.Message)
		}
	})
}

func TestContentTypeForExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"cv.pdf", "application/pdf"},
		{"cv.doc", "application/msword"},
		{"cv.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"cv.bin", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := ContentTypeForExtension(tt.filename); got != tt.want {
			t.Errorf("ContentTypeForExtension(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
