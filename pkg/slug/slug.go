package slug

import (
	"crypto/rand"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const separator = '-'

type config struct {
	maxLength    int
	suffixLength int
}

// Option configures Make.
type Option func(*config)

// MaxLength caps the slug length, suffix included.
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}

// WithSuffix appends a random lowercase alphanumeric suffix of length n.
func WithSuffix(n int) Option {
	return func(c *config) {
		c.suffixLength = n
	}
}

// Make creates a slug from s.
func Make(s string, opts ...Option) string {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	limit := cfg.maxLength
	if cfg.suffixLength > 0 && limit > 0 {
		limit -= cfg.suffixLength + 1
	}

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range fold(s) {
		r = unicode.ToLower(r)
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			if limit > 0 && b.Len()+2 > limit {
				break
			}
			b.WriteRune(separator)
			pendingSep = false
		}
		if limit > 0 && b.Len()+1 > limit {
			break
		}
		b.WriteRune(r)
	}
	result := b.String()

	if cfg.suffixLength > 0 {
		suffix := randomSuffix(cfg.suffixLength)
		if cfg.maxLength > 0 && len(suffix) > cfg.maxLength {
			suffix = suffix[:cfg.maxLength]
		}
		if result == "" || (cfg.maxLength > 0 && limit <= 0) {
			return suffix
		}
		result += string(separator) + suffix
	}
	return result
}

// fold strips combining marks after canonical decomposition, so "é" becomes "e".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func randomSuffix(n int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		for i := range b {
			b[i] = charset[i%len(charset)]
		}
		return string(b)
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}
