package models

import (
	"maps"
	"sort"
	"time"
)

// Snapshot is a flat copy of the form store, key to value.
type Snapshot map[string]string

// Clone returns an independent copy of s.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return Snapshot{}
	}

	return maps.Clone(s)
}

// Preset is a named, persisted snapshot.
type Preset struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Data      Snapshot  `json:"data"`
}

// PresetEntry is the stored form of a preset inside a collection.
type PresetEntry struct {
	TS   int64    `json:"ts"`
	Data Snapshot `json:"data"`
}

// PresetCollection is the export/import shape: preset name to entry.
type PresetCollection map[string]PresetEntry

// Names returns the preset names in a stable order.
func (c PresetCollection) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Preset returns the named preset.
func (c PresetCollection) Preset(name string) (Preset, bool) {
	entry, ok := c[name]
	if !ok {
		return Preset{}, false
	}

	return Preset{
		Name:      name,
		Timestamp: time.UnixMilli(entry.TS).UTC(),
		Data:      entry.Data.Clone(),
	}, true
}

// NewPresetEntry stamps data with the given time.
func NewPresetEntry(data Snapshot, at time.Time) PresetEntry {
	return PresetEntry{TS: at.UnixMilli(), Data: data.Clone()}
}
