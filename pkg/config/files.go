package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"gopkg.in/yaml.v3"
)

// LoadWorkflow reads a workflow definition. Files ending in .json are read as
// JSON, everything else as YAML.
func LoadWorkflow(path string) (*models.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file %s: %w", path, err)
	}

	var workflow models.Workflow

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &workflow); err != nil {
			return nil, fmt.Errorf("failed to parse workflow JSON: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &workflow); err != nil {
		return nil, fmt.Errorf("failed to parse workflow YAML: %w", err)
	}

	if err := validate.Struct(&workflow); err != nil {
		return nil, fmt.Errorf("invalid workflow %s: %w", path, err)
	}

	return &workflow, nil
}

// LoadProfile reads user profile values from a flat YAML (or JSON) mapping.
// A missing path yields an empty profile.
func LoadProfile(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return map[string]string{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	profile := make(map[string]string, len(raw))

	for k, v := range raw {
		if v == nil {
			continue
		}

		profile[k] = fmt.Sprint(v)
	}

	return profile, nil
}
