// Package form implements the public form intake endpoints: contact
// inquiries and job applications. Each submission is validated, rendered
// into a notification email, and handed to the configured transport.
package form

import "errors"

// InquiryRequest is the JSON body of a contact form submission. The
// visitor country fields are optional hints from the frontend; when
// absent, the server resolves the country from the client IP.
type InquiryRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Message            string `json:"message"`
	VisitorCountry     string `json:"visitorCountry"`
	VisitorCountryCode string `json:"visitorCountryCode"`
}

// ApplicationRequest carries the multipart fields of a job application.
type ApplicationRequest struct {
	Name                string
	Email               string
	Phone               string
	Nationality         string
	CurrentCountry      string
	WhyHireYou          string
	DetectedCountry     string
	DetectedCountryCode string
	CV                  *CVFile
}

// CVFile is an uploaded CV attachment.
type CVFile struct {
	Filename    string
	ContentType string
	// Size is taken from the multipart header before the content is read,
	// so oversize files are rejected without buffering them.
	Size    int64
	Content []byte
}

// ValidationError carries the first validation failure for a submission.
// Its message is written verbatim into the HTTP response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrDelivery marks a composed message that the transport could not send.
// The underlying cause stays in server logs; callers see a generic message.
var ErrDelivery = errors.New("form: delivery failed")
