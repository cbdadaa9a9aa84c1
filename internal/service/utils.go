package service

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// sanitizeFilename reduces an uploaded filename to a safe base name for the
// upload directory: path components are stripped and anything outside
// [A-Za-z0-9._-] becomes an underscore.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var result strings.Builder
	result.Grow(len(base))
	for _, r := range base {
		switch {
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			result.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			result.WriteRune(r)
		default:
			result.WriteRune('_')
		}
	}

	sanitized := strings.Trim(result.String(), "._")
	if sanitized == "" {
		return "upload"
	}
	return sanitized
}

// sanitizeUTF8 removes invalid UTF-8 sequences from string
// so raw model output can be safely re-encoded as JSON
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			// Invalid UTF-8 sequence, skip this byte
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}

	return result.String()
}
