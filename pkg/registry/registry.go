// Package registry parses raw variable definitions into typed, key-normalized
// maps. Malformed input degrades per definition and never fails a whole map.
package registry

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/keys"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
)

type Registry struct {
	logger *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{logger: log}
}

// ParseDefinitions decodes a JSON array of raw records and builds a map from
// it. A payload that is not a JSON array yields an empty map.
func (r *Registry) ParseDefinitions(scope models.Scope, payload []byte) *Map {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return NewMap(scope)
	}

	var records []map[string]any
	if err := json.Unmarshal(payload, &records); err != nil {
		r.logger.Warn("Ignoring malformed variable definitions", "scope", scope, "error", err)

		return NewMap(scope)
	}

	return r.BuildMap(scope, records)
}

// BuildMap builds the definition map for scope. Records are canonicalized
// first, so workflow_var_*, step_var_* and legacy shapes are all accepted.
// On duplicate keys the last record wins.
func (r *Registry) BuildMap(scope models.Scope, records []map[string]any) *Map {
	m := NewMap(scope)

	for i, record := range records {
		if record == nil {
			continue
		}

		def := r.buildDefinition(scope, Canonicalize(scope, record))
		if _, exists := m.Get(def.Key); exists {
			r.logger.Debug("Variable redefined, last definition wins", "scope", scope, "key", def.Key, "index", i)
		}

		m.put(def)
	}

	return m
}

func (r *Registry) buildDefinition(scope models.Scope, fields map[string]any) *models.VariableDefinition {
	label := strings.TrimSpace(scalarString(fields[FieldLabel]))

	key := keys.Normalize(scalarString(fields[FieldKey]))
	if key == "" {
		key = keys.Normalize(label)
	}

	if key == "" {
		key = keys.Placeholder
	}

	def := &models.VariableDefinition{
		Key:           key,
		Label:         label,
		Type:          models.ParseVariableType(scalarString(fields[FieldType])),
		Required:      truthy(fields[FieldRequired]),
		Placeholder:   scalarString(fields[FieldPlaceholder]),
		Hint:          scalarString(fields[FieldHint]),
		DefaultValue:  scalarString(fields[FieldDefaultValue]),
		ProfileKey:    keys.Normalize(scalarString(fields[FieldProfileKey])),
		PreferProfile: truthy(fields[FieldPreferProfile]),
	}

	if def.Type == models.TypeSelect {
		options, err := ParseOptions(fields[FieldOptions])
		if err != nil {
			r.logger.Warn("Degrading select variable to text", "scope", scope, "key", key, "error", err)

			def.Type = models.TypeText
		} else {
			def.Options = options
		}
	}

	return def
}
