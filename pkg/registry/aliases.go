package registry

import (
	"strings"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
)

// Canonical field names every raw record is mapped onto.
const (
	FieldKey           = "key"
	FieldLabel         = "label"
	FieldType          = "type"
	FieldRequired      = "required"
	FieldPlaceholder   = "placeholder"
	FieldHint          = "hint"
	FieldDefaultValue  = "default_value"
	FieldOptions       = "options"
	FieldProfileKey    = "profile_key"
	FieldPreferProfile = "prefer_profile"
)

// fieldAliases lists, per canonical field, the raw names that may carry it in
// lookup order. "%s" expands to the scope prefix ("workflow" or "step").
// The trailing entries are the legacy schema (var_name, var_description,
// example_value, required).
var fieldAliases = []struct {
	field   string
	aliases []string
}{
	{FieldKey, []string{"%s_var_key", "var_key", "key", "var_name"}},
	{FieldLabel, []string{"%s_var_label", "var_label", "label"}},
	{FieldType, []string{"%s_var_type", "var_type", "type"}},
	{FieldRequired, []string{"%s_var_required", "var_required", "required"}},
	{FieldPlaceholder, []string{"%s_var_placeholder", "var_placeholder", "placeholder", "example_value"}},
	{FieldHint, []string{"%s_var_hint", "var_hint", "hint", "var_description"}},
	{FieldDefaultValue, []string{"%s_var_default_value", "%s_var_default", "default_value", "default"}},
	{FieldOptions, []string{"%s_var_options_json", "%s_var_options", "options_json", "options"}},
	{FieldProfileKey, []string{"%s_var_profile_key", "profile_key", "system_key"}},
	{FieldPreferProfile, []string{"%s_var_prefer_system", "prefer_system", "prefer_profile"}},
}

// Canonicalize maps a raw record of any known schema shape onto the canonical
// field names. For every field the first alias holding a non-empty value
// wins. Unknown fields are dropped.
func Canonicalize(scope models.Scope, record map[string]any) map[string]any {
	out := make(map[string]any, len(fieldAliases))

	for _, entry := range fieldAliases {
		for _, alias := range entry.aliases {
			name := strings.ReplaceAll(alias, "%s", string(scope))

			value, ok := record[name]
			if !ok || isBlank(value) {
				continue
			}

			out[entry.field] = value

			break
		}
	}

	// legacy records only carry var_name; use it as the label too
	if _, ok := out[FieldLabel]; !ok {
		if name, ok := record["var_name"]; ok && !isBlank(name) {
			out[FieldLabel] = name
		}
	}

	return out
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	default:
		return false
	}
}
