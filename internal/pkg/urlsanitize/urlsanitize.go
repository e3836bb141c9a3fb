// Package urlsanitize normalizes user supplied source URLs before they are persisted.
package urlsanitize

import (
	"net/url"
	"strings"
	"unicode"
)

const maxURLLength = 2048

// Sanitizer is the collaborator contract used by the recipe aggregate.
type Sanitizer interface {
	Sanitize(raw string) *string
}

type SanitizerFunc func(raw string) *string

func (f SanitizerFunc) Sanitize(raw string) *string { return f(raw) }

// Default is the http(s)-only sanitizer.
var Default Sanitizer = SanitizerFunc(Sanitize)

// Sanitize returns a normalized http(s) URL, or nil when raw is empty or unsafe.
// Credentials and fragments are stripped.
func Sanitize(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxURLLength {
		return nil
	}
	for _, r := range raw {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return nil
		}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil
	}
	if u.Hostname() == "" {
		return nil
	}
	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	u.User = nil
	u.Fragment = ""
	u.RawFragment = ""
	out := u.String()
	return &out
}
