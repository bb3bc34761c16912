package soap

import (
	"regexp"
	"strings"
)

// requestKeyPatterns are tried in priority order: XML element, attribute
// assignment, bare label:value. Vendor responses have used all three shapes.
var requestKeyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<RequestKey>([^<]+)</RequestKey>`),
	regexp.MustCompile(`(?i)RequestKey\s*=\s*"([^"]+)"`),
	regexp.MustCompile(`(?i)RequestKey\s*:\s*([A-Za-z0-9_-]+)`),
}

// ExtractTag returns the raw inner markup of the first <tag ...>...</tag>
// occurrence in xml, matched case-insensitively and non-greedily. A miss or
// malformed input returns ok=false; extraction never fails hard.
func ExtractTag(xml, tag string) (string, bool) {
	if xml == "" || tag == "" {
		return "", false
	}

	quoted := regexp.QuoteMeta(tag)
	re, err := regexp.Compile(`(?is)<` + quoted + `[^>]*>(.*?)</` + quoted + `>`)
	if err != nil {
		return "", false
	}

	m := re.FindStringSubmatch(xml)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractRequestKey returns the vendor-issued reference key found in text, or
// ok=false when no pattern matches. Absence of a key is a valid outcome
// meaning "no reference issued", not an error.
func ExtractRequestKey(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	for _, re := range requestKeyPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if key := strings.TrimSpace(m[1]); key != "" {
				return key, true
			}
		}
	}
	return "", false
}
