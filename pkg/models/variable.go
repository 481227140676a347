// Package models defines the domain models shared by the form-state engine:
// variable definitions, scopes, tiers, snapshots and presets.
package models

import (
	"strconv"
	"strings"
)

// VariableType is the input kind a variable renders as.
type VariableType string

const (
	TypeText     VariableType = "text"
	TypeTextarea VariableType = "textarea"
	TypeNumber   VariableType = "number"
	TypeEmail    VariableType = "email"
	TypeURL      VariableType = "url"
	TypeSelect   VariableType = "select"
	TypeBoolean  VariableType = "boolean"
)

// CheckedValue is the stored value of a checked boolean. An unchecked
// boolean has no cell.
const CheckedValue = "true"

// IsChecked reports whether a stored boolean value means checked. Only
// true literals count; "false", garbage and "" are unchecked.
func IsChecked(value string) bool {
	checked, err := strconv.ParseBool(strings.TrimSpace(value))

	return err == nil && checked
}

var variableTypeAliases = map[string]VariableType{
	"text":     TypeText,
	"string":   TypeText,
	"textarea": TypeTextarea,
	"number":   TypeNumber,
	"email":    TypeEmail,
	"url":      TypeURL,
	"select":   TypeSelect,
	"boolean":  TypeBoolean,
	"checkbox": TypeBoolean,
	"bool":     TypeBoolean,
}

// ParseVariableType maps a raw type name to a VariableType. Unknown or empty
// names degrade to TypeText.
func ParseVariableType(raw string) VariableType {
	if t, ok := variableTypeAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t
	}

	return TypeText
}

// IsTextLike reports whether edits of this type arrive per keystroke rather
// than per change event.
func (t VariableType) IsTextLike() bool {
	switch t {
	case TypeSelect, TypeBoolean:
		return false
	default:
		return true
	}
}

// Option is one choice of a select variable.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// VariableDefinition describes one form variable. It is immutable once
// parsed for the lifetime of a session.
type VariableDefinition struct {
	Key           string       `json:"key"                     validate:"required,max=64"`
	Label         string       `json:"label"`
	Type          VariableType `json:"type"                    validate:"required,oneof=text textarea number email url select boolean"`
	Required      bool         `json:"required"`
	Placeholder   string       `json:"placeholder,omitempty"`
	Hint          string       `json:"hint,omitempty"`
	DefaultValue  string       `json:"default_value,omitempty"`
	Options       []Option     `json:"options,omitempty"`
	ProfileKey    string       `json:"profile_key,omitempty"`
	PreferProfile bool         `json:"prefer_profile,omitempty"`
}

// DisplayLabel returns the label, falling back to the key.
func (d *VariableDefinition) DisplayLabel() string {
	if strings.TrimSpace(d.Label) != "" {
		return d.Label
	}

	return d.Key
}

// HasOption reports whether value is one of the select options.
func (d *VariableDefinition) HasOption(value string) bool {
	for _, o := range d.Options {
		if o.Value == value {
			return true
		}
	}

	return false
}
