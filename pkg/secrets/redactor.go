package secrets

import (
	"regexp"
	"strings"
)

// Redactor removes known secret values and credential-shaped patterns from
// strings before they reach logs or diagnostic payloads.
type Redactor struct {
	known    []string
	patterns []*regexp.Regexp
}

// NewRedactor creates a redactor knowing the provided secret values.
func NewRedactor(known []string) *Redactor {
	return &Redactor{
		known: known,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(Authorization:\s*Basic\s+)([A-Za-z0-9+/]+=*)`),
			regexp.MustCompile(`(<Password>)([^<]*)(</Password>)`),
		},
	}
}

// FromEnv creates a redactor primed with whichever relay credentials are
// present in the process environment.
func FromEnv() *Redactor {
	var known []string
	for _, key := range []string{"MIE_PASSWORD", "SMS_CLIENT_SECRET"} {
		if val, ok := NewResolver().Resolve(key, ""); ok {
			known = append(known, val)
		}
	}
	return NewRedactor(known)
}

// Redact replaces secret material in the input string.
func (r *Redactor) Redact(input string) string {
	res := input

	for _, secret := range r.known {
		if len(secret) > 0 {
			res = strings.ReplaceAll(res, secret, "[REDACTED]")
		}
	}

	for _, re := range r.patterns {
		res = re.ReplaceAllString(res, "${1}[REDACTED]${3}")
	}

	return res
}
