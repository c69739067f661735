package sanitizer

import (
	"regexp"
	"strings"
)

var dotRegex = regexp.MustCompile(`\.{2,}`)

// NormalizeEmail trims and lowercases an address and collapses repeated dots
// in the local part. It is the canonical form used as a passcode recipient key
// and as the join key between sessions and user records.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return email
	}

	local := strings.Trim(dotRegex.ReplaceAllString(email[:at], "."), ".")
	return local + email[at:]
}

// TrimString trims surrounding whitespace and collapses internal runs of
// whitespace to a single space.
func TrimString(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
