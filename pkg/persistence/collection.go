package persistence

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// MaxPresetNameLength is the longest accepted preset name in runes.
const MaxPresetNameLength = 100

const collectionSchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"required": ["data"],
		"properties": {
			"ts": {"type": "number"},
			"data": {
				"type": "object",
				"additionalProperties": {"type": ["string", "number", "boolean", "null"]}
			}
		}
	}
}`

var collectionSchemaLoader = gojsonschema.NewStringLoader(collectionSchema)

// ValidatePresetName trims name and checks it is usable.
func ValidatePresetName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxPresetNameLength {
		return "", ErrInvalidPresetName
	}

	return name, nil
}

// EncodeCollection renders c in the export shape {name: {ts, data}}.
func EncodeCollection(c models.PresetCollection) ([]byte, error) {
	if c == nil {
		c = models.PresetCollection{}
	}

	body, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preset collection: %w", err)
	}

	return body, nil
}

// DecodeCollection parses and validates an import blob. Non-string data
// values are converted to their string form; null values are dropped.
func DecodeCollection(blob []byte) (models.PresetCollection, error) {
	if len(strings.TrimSpace(string(blob))) == 0 {
		return models.PresetCollection{}, nil
	}

	result, err := gojsonschema.Validate(collectionSchemaLoader, gojsonschema.NewBytesLoader(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCollection, err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidCollection, strings.Join(details, "; "))
	}

	var raw map[string]struct {
		TS   float64        `json:"ts"`
		Data map[string]any `json:"data"`
	}

	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCollection, err)
	}

	c := make(models.PresetCollection, len(raw))

	for name, entry := range raw {
		valid, err := ValidatePresetName(name)
		if err != nil {
			return nil, fmt.Errorf("%w: preset name %q", ErrInvalidCollection, name)
		}

		data := make(models.Snapshot, len(entry.Data))

		for k, v := range entry.Data {
			switch val := v.(type) {
			case nil:
				continue
			case string:
				data[k] = val
			case float64:
				data[k] = strconv.FormatFloat(val, 'f', -1, 64)
			case bool:
				data[k] = strconv.FormatBool(val)
			}
		}

		c[valid] = models.PresetEntry{TS: int64(entry.TS), Data: data}
	}

	return c, nil
}

// MergeCollections returns existing with incoming merged in. Incoming
// entries win on name collision. Neither argument is modified.
func MergeCollections(existing, incoming models.PresetCollection) models.PresetCollection {
	out := make(models.PresetCollection, len(existing)+len(incoming))

	for name, entry := range existing {
		out[name] = entry
	}

	for name, entry := range incoming {
		out[name] = models.PresetEntry{TS: entry.TS, Data: entry.Data.Clone()}
	}

	return out
}
