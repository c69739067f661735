package validator

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// PasscodeLength is the number of digits in an issued passcode.
const PasscodeLength = 6

var (
	numericStringRegex = regexp.MustCompile(`^[0-9]+$`)
	usernameRegex      = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{1,30}[a-z0-9])$`)
)

// RequiredString validates that a string is not empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "field is required", TranslationKey: "validation.required"},
	}
}

// MaxLenString limits the length of value in characters.
func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at most %d characters long", max),
			TranslationKey: "validation.max_length",
		},
	}
}

// LenString requires value to be exactly n characters long.
func LenString(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) == n },
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be exactly %d characters long", n),
			TranslationKey: "validation.length",
		},
	}
}

// ValidNumericString requires value to consist of ASCII digits only.
func ValidNumericString(field, value string) Rule {
	return Rule{
		Check: func() bool { return numericStringRegex.MatchString(value) },
		Error: ValidationError{Field: field, Message: "must contain only digits", TranslationKey: "validation.numeric"},
	}
}

// Passcode validates a submitted one-time passcode: exactly six ASCII digits.
func Passcode(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return len(value) == PasscodeLength && numericStringRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be a %d-digit code", PasscodeLength),
			TranslationKey: "validation.passcode",
		},
	}
}

// ValidEmail validates an address with net/mail plus the checks typical for
// web sign-up forms: a non-empty local part and a dotted domain.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != strings.TrimSpace(value) {
				return false
			}
			local, domain, ok := strings.Cut(addr.Address, "@")
			if !ok || local == "" {
				return false
			}
			if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
				return false
			}
			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}
			return true
		},
		Error: ValidationError{Field: field, Message: "must be a valid email address", TranslationKey: "validation.email"},
	}
}

// OptionalURL accepts an empty value or an absolute http(s) URL.
func OptionalURL(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			u, err := url.ParseRequestURI(value)
			if err != nil {
				return false
			}
			return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
		},
		Error: ValidationError{Field: field, Message: "must be a valid http or https URL", TranslationKey: "validation.url"},
	}
}

// InListString requires value to be one of allowed.
func InListString(field, value string, allowed []string) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
			TranslationKey: "validation.in_list",
		},
	}
}

// ValidUsername accepts 3-32 lowercase letters, digits and inner hyphens.
func ValidUsername(field, value string) Rule {
	return Rule{
		Check: func() bool { return usernameRegex.MatchString(value) },
		Error: ValidationError{
			Field:          field,
			Message:        "must be 3-32 lowercase letters, digits or hyphens",
			TranslationKey: "validation.username",
		},
	}
}

// ValidUUID requires value to parse as a UUID.
func ValidUUID(field, value string) Rule {
	return Rule{
		Check: func() bool {
			_, err := uuid.Parse(value)
			return err == nil
		},
		Error: ValidationError{Field: field, Message: "must be a valid UUID", TranslationKey: "validation.uuid"},
	}
}
