package contact

import (
	"net/url"
	"strings"
	"testing"
)

func TestEncodeComponent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc-XYZ_09.!~*'()", "abc-XYZ_09.!~*'()"},
		{"a b", "a%20b"},
		{"x&y=z", "x%26y%3Dz"},
		{"line\nbreak", "line%0Abreak"},
		{"—", "%E2%80%94"},
		{"50% + tax", "50%25%20%2B%20tax"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EncodeComponent(tt.in); got != tt.want {
			t.Errorf("EncodeComponent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSubject(t *testing.T) {
	if got := (Inquiry{}).Subject(); got != "CleanTouch wholesale inquiry" {
		t.Errorf("empty company subject = %q", got)
	}
	if got := (Inquiry{Company: "  Acme Labs "}).Subject(); got != "CleanTouch wholesale inquiry — Acme Labs" {
		t.Errorf("subject = %q", got)
	}
}

func TestBodyTemplate(t *testing.T) {
	q := Inquiry{Company: "Acme", Email: "ops@acme.test", Details: "200 boxes of gloves"}
	want := "Hello CleanTouch,\n\nCompany: Acme\nContact: -\nEmail: ops@acme.test\n\nRequest:\n200 boxes of gloves\n\nThanks."
	if got := q.Body(); got != want {
		t.Errorf("Body() =\n%s\nwant\n%s", got, want)
	}
}

func TestComposeURI(t *testing.T) {
	q := Inquiry{Company: "Acme", Name: "Jo", Email: "jo@acme.test", Details: "Need a quote & samples"}
	uri := ComposeURI("hello@cleantouch.example", q)

	if !strings.HasPrefix(uri, "mailto:hello@cleantouch.example?subject=") {
		t.Fatalf("unexpected prefix: %s", uri)
	}
	if strings.ContainsAny(uri[len("mailto:"):], " \n") {
		t.Error("URI contains unescaped whitespace")
	}

	u, err := url.Parse(uri)
	if err != nil {
		t.Fatal(err)
	}
	vals, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		t.Fatal(err)
	}
	if vals.Get("subject") != q.Subject() {
		t.Errorf("subject = %q, want %q", vals.Get("subject"), q.Subject())
	}
	if vals.Get("body") != q.Body() {
		t.Errorf("body = %q, want %q", vals.Get("body"), q.Body())
	}
}
