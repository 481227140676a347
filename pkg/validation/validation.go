// Package validation holds the per-type input rules and the pristine/valid/
// invalid state machine every rendered control runs after each event.
package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/go-playground/validator/v10"
)

const (
	MessageRequired = "This field is required."
	MessageEmail    = "Please enter a valid email address."
	MessageURL      = "Please enter a URL starting with http://, https:// or /."
	MessageNumber   = "Please enter a number."
	MessageOption   = "Please choose one of the listed options."
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Result is the outcome of a type check.
type Result struct {
	OK      bool
	Message string
}

// Validate checks value against the rule for typ. Empty input is always ok:
// emptiness is a required-field concern, not a type concern.
func Validate(typ models.VariableType, value string) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return Result{OK: true}
	}

	switch typ {
	case models.TypeEmail:
		if strings.Count(value, "@") != 1 || validate.Var(value, "email") != nil {
			return Result{Message: MessageEmail}
		}
	case models.TypeURL:
		if !strings.HasPrefix(value, "http://") &&
			!strings.HasPrefix(value, "https://") &&
			!strings.HasPrefix(value, "/") {
			return Result{Message: MessageURL}
		}
	case models.TypeNumber:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return Result{Message: MessageNumber}
		}
	}

	return Result{OK: true}
}

// Evaluate derives the validation state of a control holding value.
//
// A non-empty value is checked against its type rule and flagged invalid on
// mismatch whatever the interaction history. A boolean counts as empty
// unless it is checked. An empty required field stays
// pristine until it was touched or the trigger is blur or change. An empty
// optional field is never invalid.
func Evaluate(def *models.VariableDefinition, value string, touched bool, trigger models.Trigger) (models.ValidationState, string) {
	empty := strings.TrimSpace(value) == ""
	if def.Type == models.TypeBoolean {
		empty = !models.IsChecked(value)
	}

	if empty {
		if !def.Required {
			return models.ValidationPristine, ""
		}

		if touched || trigger == models.TriggerBlur || trigger == models.TriggerChange {
			return models.ValidationInvalid, MessageRequired
		}

		return models.ValidationPristine, ""
	}

	if res := Validate(def.Type, value); !res.OK {
		return models.ValidationInvalid, res.Message
	}

	if def.Type == models.TypeSelect && len(def.Options) > 0 && !def.HasOption(value) {
		return models.ValidationInvalid, MessageOption
	}

	return models.ValidationValid, ""
}
