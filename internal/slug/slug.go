// Package slug derives URL-safe slugs from titles.
package slug

import (
	"strings"
	"unicode"

	"github.com/mf010/dynamic-website-sub000/internal/uniuri"
)

const (
	// maxLength caps generated slugs to fit the 255 byte slug columns
	// with room for a dedup suffix.
	maxLength = 200

	suffixLength = 6
)

var suffixChars = []byte("abcdefghijklmnopqrstuvwxyz0123456789")

// Make converts a title into a lowercase, hyphen-separated slug.
// Characters outside [a-z0-9] collapse into single hyphens.
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) && r < unicode.MaxASCII, unicode.IsDigit(r) && r < unicode.MaxASCII:
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	s := strings.Trim(b.String(), "-")
	if len(s) > maxLength {
		s = strings.Trim(s[:maxLength], "-")
	}

	return s
}

// Unique returns a slug for title that exists(slug) reports as unused.
// When the plain slug is taken, a short random suffix is appended until
// a free one is found.
func Unique(title string, exists func(string) bool) string {
	s := Make(title)
	if s == "" {
		s = uniuri.NewLenChars(suffixLength, suffixChars)
	}

	if !exists(s) {
		return s
	}

	for {
		candidate := s + "-" + uniuri.NewLenChars(suffixLength, suffixChars)
		if !exists(candidate) {
			return candidate
		}
	}
}
