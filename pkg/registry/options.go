package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidOptions is returned for a select options payload that cannot be used.
var ErrInvalidOptions = errors.New("invalid select options")

const optionsSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"anyOf": [
			{"type": ["string", "number", "boolean"]},
			{
				"type": "object",
				"required": ["value"],
				"properties": {
					"value": {"type": ["string", "number", "boolean"]},
					"label": {"type": ["string", "number"]}
				}
			}
		]
	}
}`

var optionsSchemaLoader = gojsonschema.NewStringLoader(optionsSchema)

// ParseOptions decodes a select options payload. The payload may be a JSON
// string or an already decoded array of either bare values or
// {value,label} objects.
func ParseOptions(payload any) ([]models.Option, error) {
	raw := payload

	if s, ok := payload.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, fmt.Errorf("%w: empty payload", ErrInvalidOptions)
		}

		if err := json.Unmarshal([]byte(s), &raw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}
	}

	result, err := gojsonschema.Validate(optionsSchemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(details, "; "))
	}

	items, _ := raw.([]any)
	options := make([]models.Option, 0, len(items))

	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			value := scalarString(v["value"])

			label := scalarString(v["label"])
			if label == "" {
				label = value
			}

			options = append(options, models.Option{Value: value, Label: label})
		default:
			value := scalarString(v)
			options = append(options, models.Option{Value: value, Label: value})
		}
	}

	return options, nil
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		if v {
			return "true"
		}

		return ""
	default:
		return fmt.Sprint(v)
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v == 1
	case int:
		return v == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true
		}
	}

	return false
}
