package compose

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"time"
)

// base64LineLength is the maximum encoded line length per RFC 2045.
const base64LineLength = 76

// Headers returns the rendered header block in order. Values derived from
// user input were sanitized at composition time; address headers go through
// net/mail formatting, and the subject is Q-encoded when it carries
// non-ASCII text.
func (e *Email) Headers() []Header {
	from := (&mail.Address{Name: e.FromName, Address: e.FromAddr}).String()
	headers := []Header{
		{Name: "From", Value: from},
		{Name: "To", Value: e.To},
		{Name: "Reply-To", Value: e.ReplyTo.String()},
		{Name: "Subject", Value: mime.QEncoding.Encode("utf-8", e.Subject)},
		{Name: "MIME-Version", Value: "1.0"},
		{Name: "Date", Value: e.Date.Format(time.RFC1123Z)},
	}
	if e.Boundary != "" {
		headers = append(headers, Header{
			Name:  "Content-Type",
			Value: fmt.Sprintf("multipart/mixed; boundary=%q", e.Boundary),
		})
	} else {
		headers = append(headers,
			Header{Name: "Content-Type", Value: "text/html; charset=utf-8"},
			Header{Name: "Content-Transfer-Encoding", Value: "quoted-printable"},
		)
	}
	return headers
}

// Parts returns the ordered MIME parts: always the HTML part, plus the
// attachment part when a file is present. Part bodies are already
// transfer-encoded.
func (e *Email) Parts() []Part {
	parts := []Part{{
		ContentType:      "text/html; charset=utf-8",
		TransferEncoding: "quoted-printable",
		Body:             encodeQuotedPrintable(e.HTMLBody),
	}}
	if e.attach != nil {
		filename := mime.QEncoding.Encode("utf-8", e.attach.Filename)
		contentType := e.attach.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		parts = append(parts, Part{
			ContentType:      fmt.Sprintf("%s; name=%q", contentType, filename),
			TransferEncoding: "base64",
			Disposition:      fmt.Sprintf("attachment; filename=%q", filename),
			Body:             encodeBase64Wrapped(e.attach.Content),
		})
	}
	return parts
}

// Bytes renders the complete wire-format message: header block, blank line,
// then either the single encoded part or the boundary-delimited parts with
// the closing boundary line.
func (e *Email) Bytes() []byte {
	var buf bytes.Buffer
	for _, h := range e.Headers() {
		fmt.Fprintf(&buf, "%s: %s\r\n", h.Name, h.Value)
	}
	buf.WriteString("\r\n")

	parts := e.Parts()
	if e.Boundary == "" {
		buf.WriteString(parts[0].Body)
		buf.WriteString("\r\n")
		return buf.Bytes()
	}

	for _, p := range parts {
		fmt.Fprintf(&buf, "--%s\r\n", e.Boundary)
		fmt.Fprintf(&buf, "Content-Type: %s\r\n", p.ContentType)
		fmt.Fprintf(&buf, "Content-Transfer-Encoding: %s\r\n", p.TransferEncoding)
		if p.Disposition != "" {
			fmt.Fprintf(&buf, "Content-Disposition: %s\r\n", p.Disposition)
		}
		buf.WriteString("\r\n")
		buf.WriteString(p.Body)
		buf.WriteString("\r\n")
	}
	fmt.Fprintf(&buf, "--%s--\r\n", e.Boundary)
	return buf.Bytes()
}

// encodeQuotedPrintable encodes text so non-ASCII content survives 7-bit
// transports.
func encodeQuotedPrintable(s string) string {
	var buf bytes.Buffer
	w := quotedprintable.NewWriter(&buf)
	// Writes to a bytes.Buffer cannot fail.
	w.Write([]byte(s))
	w.Close()
	return buf.String()
}

// encodeBase64Wrapped encodes bytes to base64 broken into 76-character
// lines per RFC 2045.
func encodeBase64Wrapped(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	if len(encoded) <= base64LineLength {
		return encoded
	}
	var sb strings.Builder
	sb.Grow(len(encoded) + 2*(len(encoded)/base64LineLength))
	for i := 0; i < len(encoded); i += base64LineLength {
		end := i + base64LineLength
		if end > len(encoded) {
			end = len(encoded)
		}
		if i > 0 {
			sb.WriteString("\r\n")
		}
		sb.WriteString(encoded[i:end])
	}
	return sb.String()
}
