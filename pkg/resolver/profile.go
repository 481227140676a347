package resolver

import (
	"strings"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/keys"
)

// SystemPrefix marks profile keys that resolve but are never displayed.
const SystemPrefix = "sys_"

// ProfileSource supplies cross-workflow user defaults. It is read-only.
type ProfileSource interface {
	Lookup(key string) (string, bool)
}

// StaticProfile is an in-memory ProfileSource. Keys are normalized on lookup.
type StaticProfile map[string]string

// NewStaticProfile normalizes the keys of values.
func NewStaticProfile(values map[string]string) StaticProfile {
	p := make(StaticProfile, len(values))
	for k, v := range values {
		if nk := keys.Normalize(k); nk != "" {
			p[nk] = v
		}
	}

	return p
}

func (p StaticProfile) Lookup(key string) (string, bool) {
	v, ok := p[keys.Normalize(key)]

	return v, ok
}

// Visible returns the profile values that may be displayed, dropping every
// key with the sys_ prefix.
func Visible(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))

	for k, v := range values {
		if strings.HasPrefix(k, SystemPrefix) {
			continue
		}

		out[k] = v
	}

	return out
}
