package compose

import (
	"bytes"
	"fmt"
	"html"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Options configures a Composer.
type Options struct {
	// From is the bare sender address, FromName its display name.
	From     string
	FromName string
	// To is the destination mailbox for every notification.
	To string
	// Brand is rendered into the subject line and body header.
	Brand string

	// Now and NewBoundary override the clock and boundary source in tests.
	Now         func() time.Time
	NewBoundary func() string
}

// Composer renders validated submissions into MIME emails. Safe for
// concurrent use; it holds no per-message state.
type Composer struct {
	from        string
	fromName    string
	to          string
	brand       string
	now         func() time.Time
	newBoundary func() string
	scrub       *bluemonday.Policy
}

// New creates a Composer.
func New(opts Options) *Composer {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	boundary := opts.NewBoundary
	if boundary == nil {
		boundary = func() string { return "mkp-" + uuid.NewString() }
	}
	return &Composer{
		from:        opts.From,
		fromName:    opts.FromName,
		to:          opts.To,
		brand:       opts.Brand,
		now:         now,
		newBoundary: boundary,
		scrub:       bluemonday.StrictPolicy(),
	}
}

// Compose builds the notification email for a validated message. The HTML
// body is rendered through html/template, so every interpolated field is
// entity-escaped; header values additionally have CR/LF stripped.
func (c *Composer) Compose(msg *Message) (*Email, error) {
	now := c.now()
	name := sanitizeHeaderValue(strings.TrimSpace(msg.Name))

	data := c.templateData(msg, now)

	var buf bytes.Buffer
	tmpl := inquiryTmpl
	if msg.Kind == KindApplication {
		tmpl = applicationTmpl
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s body: %w", msg.Kind.Label(), err)
	}

	email := &Email{
		FromAddr:  c.from,
		FromName:  c.fromName,
		To:        c.to,
		ReplyTo:   mail.Address{Name: name, Address: msg.Email},
		Subject:   sanitizeHeaderValue(fmt.Sprintf("New %s from %s | %s", msg.Kind.Label(), name, c.brand)),
		Date:      now,
		HTMLBody:  buf.String(),
		kindLabel: msg.Kind.Label(),
	}
	if msg.Attachment != nil {
		email.Boundary = c.newBoundary()
		email.attach = msg.Attachment
	}
	return email, nil
}

// templateData assembles the fields the body templates interpolate.
func (c *Composer) templateData(msg *Message, now time.Time) bodyData {
	country := c.scrubText(msg.Country)
	code := normalizeCountryCode(msg.CountryCode)
	cleanPhone := cleanPhoneNumber(msg.Phone)

	data := bodyData{
		Brand:          c.brand,
		Timestamp:      now.Format("Monday, January 2, 2006 • 3:04 PM"),
		Name:           msg.Name,
		Email:          msg.Email,
		Phone:          msg.Phone,
		Body:           msg.Body,
		Country:        country,
		Nationality:    c.scrubText(msg.Nationality),
		CurrentCountry: c.scrubText(msg.CurrentCountry),
		ReplyMailtoEN:  c.mailtoLink(msg, false),
		ReplyMailtoAR:  c.mailtoLink(msg, true),
		WhatsAppEN:     c.whatsappLink(cleanPhone, msg.Name, false),
		WhatsAppAR:     c.whatsappLink(cleanPhone, msg.Name, true),
	}
	if code != "" {
		data.FlagURL = safeURL("https://flagcdn.com/80x60/" + strings.ToLower(code) + ".png")
	}
	if msg.Attachment != nil {
		data.CVFilename = msg.Attachment.Filename
		data.CVSizeKB = fmt.Sprintf("%.2f", float64(len(msg.Attachment.Content))/1024)
	}
	return data
}

// scrubText strips any markup from a display-only metadata value and
// returns it as plain text.
func (c *Composer) scrubText(value string) string {
	return html.UnescapeString(c.scrub.Sanitize(value))
}

func (c *Composer) mailtoLink(msg *Message, arabic bool) safeURL {
	var subject, body string
	if arabic {
		subject = "رد: استفسارك لـ " + c.brand
		body = fmt.Sprintf("مرحباً %s،\n\nشكراً لتواصلك مع %s. لقد استلمنا رسالتك ويسعدنا مساعدتك.\n\nسنعود إليك قريباً بمزيد من التفاصيل.\n\nمع أطيب التحيات،\nفريق %s", msg.Name, c.brand, c.brand)
	} else {
		subject = "Re: Your inquiry to " + c.brand
		body = fmt.Sprintf("Hi %s,\n\nThank you for reaching out to %s. We received your message and would love to assist you.\n\nWe will get back to you shortly with more details.\n\nBest regards,\n%s Team", msg.Name, c.brand, c.brand)
	}
	return safeURL("mailto:" + msg.Email + "?subject=" + escapeQuery(subject) + "&body=" + escapeQuery(body))
}

func (c *Composer) whatsappLink(cleanPhone, name string, arabic bool) safeURL {
	var text string
	if arabic {
		text = fmt.Sprintf("مرحباً %s،\n\nشكراً لتواصلك مع %s. لقد استلمنا رسالتك ويسعدنا مساعدتك.\n\nسنعود إليك قريباً بمزيد من التفاصيل.\n\nمع أطيب التحيات،\nفريق %s", name, c.brand, c.brand)
	} else {
		text = fmt.Sprintf("Hi %s,\n\nThank you for contacting %s. We received your message and would love to assist you.\n\nWe will get back to you shortly with more details.\n\nBest regards,\n%s Team", name, c.brand, c.brand)
	}
	return safeURL("https://wa.me/" + cleanPhone + "?text=" + escapeQuery(text))
}

// sanitizeHeaderValue strips CR/LF so user-supplied text can never open a
// new header line, and caps the value length.
func sanitizeHeaderValue(value string) string {
	value = strings.ReplaceAll(value, "\r\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	if len(value) > 1000 {
		value = value[:1000]
	}
	return value
}

var nonPhoneChars = regexp.MustCompile(`[^0-9+]`)

// cleanPhoneNumber reduces a phone number to digits and "+" for wa.me URLs.
func cleanPhoneNumber(phone string) string {
	return nonPhoneChars.ReplaceAllString(phone, "")
}

var countryCodeRe = regexp.MustCompile(`^[A-Za-z]{2}$`)

// normalizeCountryCode accepts only two-letter ISO codes; anything else is
// treated as unknown so it can never reach the flag URL.
func normalizeCountryCode(code string) string {
	code = strings.TrimSpace(code)
	if !countryCodeRe.MatchString(code) {
		return ""
	}
	return strings.ToUpper(code)
}

// escapeQuery percent-encodes text for mailto/wa.me query strings.
func escapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
