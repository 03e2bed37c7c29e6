// Package contact builds the mailto link for a wholesale inquiry.
package contact

import (
	"fmt"
	"strings"
)

const subjectPrefix = "CleanTouch wholesale inquiry"

// Inquiry is the contact form content. Fields are trimmed before use.
type Inquiry struct {
	Company string
	Name    string
	Email   string
	Details string
}

// Subject returns the message subject. The company suffix is only added when a
// company is given.
func (q Inquiry) Subject() string {
	if c := strings.TrimSpace(q.Company); c != "" {
		return subjectPrefix + " — " + c
	}
	return subjectPrefix
}

// Body returns the message body. Missing fields read "-".
func (q Inquiry) Body() string {
	return fmt.Sprintf(`Hello CleanTouch,

Company: %s
Contact: %s
Email: %s

Request:
%s

Thanks.`,
		orDash(q.Company), orDash(q.Name), orDash(q.Email), orDash(q.Details))
}

func orDash(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "-"
	}
	return s
}

// ComposeURI returns the mailto URI addressed to to.
func ComposeURI(to string, q Inquiry) string {
	return "mailto:" + to + "?subject=" + EncodeComponent(q.Subject()) + "&body=" + EncodeComponent(q.Body())
}

const upperhex = "0123456789ABCDEF"

// EncodeComponent percent-encodes s the way browsers encode a URI component:
// only A-Z a-z 0-9 and -_.!~*'() are kept, everything else is escaped byte by
// byte as UTF-8.
func EncodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
