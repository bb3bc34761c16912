package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRedactor_KnownValue(t *testing.T) {
	r := NewRedactor([]string{"secret123"})

	assert.Equal(t, "value [REDACTED] here", r.Redact("value secret123 here"))
}

func TestRedactor_BasicAuthPattern(t *testing.T) {
	r := NewRedactor(nil)

	got := r.Redact("request failed: Authorization: Basic dXNlcjpwYXNz rejected")
	assert.Contains(t, got, "Authorization: Basic [REDACTED]")
	assert.NotContains(t, got, "dXNlcjpwYXNz")
}

func TestRedactor_PasswordElementPattern(t *testing.T) {
	r := NewRedactor(nil)

	got := r.Redact("<Token><Password>hunter2</Password></Token>")
	assert.Equal(t, "<Token><Password>[REDACTED]</Password></Token>", got)
}

func TestRedactor_MultipleKnownValues(t *testing.T) {
	r := NewRedactor([]string{"alpha", "beta"})

	got := r.Redact("alpha then beta then alpha")
	assert.NotContains(t, got, "alpha")
	assert.NotContains(t, got, "beta")
}

// Property: a known secret never survives redaction, wherever it appears.
func TestRedactorProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		secret := rapid.StringMatching(`[a-zA-Z0-9]{10,20}`).Draw(t, "secret")

		r := NewRedactor([]string{secret})

		prefix := rapid.String().Draw(t, "prefix")
		suffix := rapid.String().Draw(t, "suffix")
		input := prefix + secret + suffix

		redacted := r.Redact(input)

		if strings.Contains(redacted, secret) {
			t.Fatalf("secret leaked in redacted string: %s", redacted)
		}

		if !strings.Contains(redacted, "[REDACTED]") {
			t.Fatalf("redaction marker not found in: %s", redacted)
		}
	})
}
