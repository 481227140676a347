// Package keys canonicalizes variable keys so every scope, store cell and
// template token agrees on one spelling.
package keys

import (
	"strings"
)

// MaxLength is the longest canonical key. Longer keys are truncated.
const MaxLength = 64

// Placeholder is the key given to a definition that has neither a key nor a label.
const Placeholder = "var"

// Normalize lowercases raw, drops every character outside [a-z0-9_], trims
// leading and trailing underscores and truncates to MaxLength.
func Normalize(raw string) string {
	var b strings.Builder

	b.Grow(len(raw))

	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}

	key := strings.Trim(b.String(), "_")
	if len(key) > MaxLength {
		// truncation can expose a trailing underscore again
		key = strings.TrimRight(key[:MaxLength], "_")
	}

	return key
}

// IsPlaceholderToken reports whether v is an unresolved template token such as "{goal}".
func IsPlaceholderToken(v string) bool {
	v = strings.TrimSpace(v)

	return len(v) >= 2 && strings.HasPrefix(v, "{") && strings.HasSuffix(v, "}")
}
