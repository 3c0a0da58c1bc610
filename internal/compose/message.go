// Package compose turns a validated form submission into a MIME email.
package compose

import (
	"net/mail"
	"time"
)

// Kind identifies which form produced a submission.
type Kind int

const (
	// KindInquiry is a contact-form message.
	KindInquiry Kind = iota
	// KindApplication is a job application with a CV attachment.
	KindApplication
)

// Label returns the human-readable name used in subjects and logs.
func (k Kind) Label() string {
	if k == KindApplication {
		return "Job Application"
	}
	return "Inquiry"
}

// Attachment is a binary file carried by an application submission.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is a validated submission ready for composition. Field content is
// untrusted text; escaping happens during composition, not here.
type Message struct {
	Kind  Kind
	Name  string
	Email string
	Phone string
	// Body is the inquiry message, or the "why hire you" text for applications.
	Body string

	// Application-only fields.
	Nationality    string
	CurrentCountry string
	Attachment     *Attachment

	// Visitor-country metadata, display only.
	Country     string
	CountryCode string
}

// Header is one rendered email header line.
type Header struct {
	Name  string
	Value string
}

// Part is one MIME section of the rendered message body. Body holds the
// already transfer-encoded content.
type Part struct {
	ContentType      string
	TransferEncoding string
	Disposition      string
	Body             string
}

// Email is a composed message, immutable once built. Boundary is empty for
// single-part messages.
type Email struct {
	FromAddr  string
	FromName  string
	To        string
	ReplyTo   mail.Address
	Subject   string
	Date      time.Time
	HTMLBody  string
	Boundary  string
	attach    *Attachment
	kindLabel string
}

// Attachment returns the attached file, or nil.
func (e *Email) Attachment() *Attachment {
	return e.attach
}

// KindLabel returns the submission kind the email was composed for.
func (e *Email) KindLabel() string {
	return e.kindLabel
}

// Recipients returns the envelope recipient addresses.
func (e *Email) Recipients() []string {
	return []string{e.To}
}
