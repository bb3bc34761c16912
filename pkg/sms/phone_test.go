package sms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"leading zero", "0821234567", "+27821234567"},
		{"country code", "27821234567", "+27821234567"},
		{"already international", "+27821234567", "+27821234567"},
		{"bare subscriber number", "821234567", "+27821234567"},
		{"spaces and dashes", "082-123 4567", "+27821234567"},
		{"parenthesised", "(082) 123-4567", "+27821234567"},
		{"short number kept as-is", "12345", "+12345"},
		{"empty", "", ""},
		{"no digits", "call me", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatNumber(tc.input))
		})
	}
}

func TestFormatNumber_SameDestinationAcrossForms(t *testing.T) {
	forms := []string{"0821234567", "27821234567", "+27 82 123 4567", "821234567"}
	for _, form := range forms {
		assert.Equal(t, "+27821234567", FormatNumber(form), "input %q", form)
	}
}
