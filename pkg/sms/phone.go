package sms

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// FormatNumber normalizes a phone number to the vendor's South African
// international form (+27...). Inputs with a leading country code, a leading
// zero, or a bare nine-digit subscriber number all normalize to the same
// destination.
func FormatNumber(phone string) string {
	if phone == "" {
		return ""
	}

	cleaned := nonDigits.ReplaceAllString(phone, "")
	switch {
	case cleaned == "":
		return ""
	case strings.HasPrefix(cleaned, "27"):
		return "+" + cleaned
	case strings.HasPrefix(cleaned, "0"):
		return "+27" + cleaned[1:]
	case len(cleaned) >= 9:
		return "+27" + cleaned
	default:
		return "+" + cleaned
	}
}
