// Package template substitutes resolved variable values into prompt
// templates containing {key} and {key|default} tokens.
package template

import (
	"regexp"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/keys"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/resolver"
)

var tokenPattern = regexp.MustCompile(`\{([^{}|]+)(?:\|([^{}]*))?\}`)

// LookupFunc returns the value for a normalized key and whether it is usable.
type LookupFunc func(key string) (string, bool)

// Interpolate replaces every token in tpl. A token becomes the looked-up
// value when usable, else its inline default when one is given, else it is
// left untouched.
func Interpolate(tpl string, lookup LookupFunc) string {
	return tokenPattern.ReplaceAllStringFunc(tpl, func(token string) string {
		m := tokenPattern.FindStringSubmatch(token)

		key := keys.Normalize(m[1])
		if key == "" {
			return token
		}

		if v, ok := lookup(key); ok {
			return v
		}

		// m[0] contains "|" only when an inline default was written
		if len(m[0]) > len(m[1])+2 {
			return m[2]
		}

		return token
	})
}

// Placeholders lists the normalized keys referenced by tpl in order of first use.
func Placeholders(tpl string) []string {
	seen := make(map[string]bool)

	var out []string

	for _, m := range tokenPattern.FindAllStringSubmatch(tpl, -1) {
		key := keys.Normalize(m[1])
		if key == "" || seen[key] {
			continue
		}

		seen[key] = true
		out = append(out, key)
	}

	return out
}

// Unresolved lists the keys of tpl for which lookup has no usable value and
// no inline default exists.
func Unresolved(tpl string, lookup LookupFunc) []string {
	var out []string

	seen := make(map[string]bool)

	for _, m := range tokenPattern.FindAllStringSubmatch(tpl, -1) {
		key := keys.Normalize(m[1])
		if key == "" || seen[key] {
			continue
		}

		if _, ok := lookup(key); ok || len(m[0]) > len(m[1])+2 {
			continue
		}

		seen[key] = true
		out = append(out, key)
	}

	return out
}

// ResolverLookup adapts a resolution engine to a LookupFunc for one context.
func ResolverLookup(engine *resolver.Engine, ctx resolver.Context) LookupFunc {
	return func(key string) (string, bool) {
		return engine.Lookup(key, ctx)
	}
}
