// Package web provides the HTTP request and response types of the preset API.
package web

import "github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"

// SavePresetRequest is the body of PUT /presets/:workflowId/items/:name.
type SavePresetRequest struct {
	Data models.Snapshot `json:"data" validate:"required,dive,keys,min=1,max=128,endkeys,max=10000"`
}

// PresetResponse is a single stored preset.
type PresetResponse struct {
	Name string          `json:"name"`
	TS   int64           `json:"ts"`
	Data models.Snapshot `json:"data"`
}

// PresetListResponse lists the preset names of a namespace.
type PresetListResponse struct {
	Presets []string `json:"presets"`
}

// ImportResponse reports how many presets an import wrote.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// NewPresetResponse builds the response for entry stored under name.
func NewPresetResponse(name string, entry models.PresetEntry) PresetResponse {
	data := entry.Data.Clone()

	return PresetResponse{Name: name, TS: entry.TS, Data: data}
}
