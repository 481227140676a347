// Package file provides a file-based preset repository: one JSON collection
// per workflow and user under the root directory.
package file

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
)

// Persistence implements persistence.PresetRepository using the file system.
type Persistence struct {
	root string
	mu   sync.Mutex
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) *Persistence {
	return &Persistence{root: strings.Replace(root, "file://", "", 1)}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) path(ns persistence.Namespace) string {
	return filepath.Join(
		fp.root,
		"presets",
		hex.EncodeToString([]byte(ns.WorkflowID)),
		hex.EncodeToString([]byte(ns.UserID))+".json",
	)
}

func (fp *Persistence) read(ns persistence.Namespace) (models.PresetCollection, error) {
	body, err := os.ReadFile(fp.path(ns))
	if err != nil {
		if os.IsNotExist(err) {
			return models.PresetCollection{}, nil
		}

		return nil, fmt.Errorf("failed to read presets for %s: %w", ns, err)
	}

	var collection models.PresetCollection
	if err := json.Unmarshal(body, &collection); err != nil {
		return nil, fmt.Errorf("failed to unmarshal presets for %s: %w", ns, err)
	}

	if collection == nil {
		collection = models.PresetCollection{}
	}

	return collection, nil
}

func (fp *Persistence) write(ns persistence.Namespace, collection models.PresetCollection) error {
	body, err := persistence.EncodeCollection(collection)
	if err != nil {
		return err
	}

	target := fp.path(ns)

	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return fmt.Errorf("failed to create presets directory: %w", err)
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, body, 0600); err != nil {
		return fmt.Errorf("failed to write presets for %s: %w", ns, err)
	}

	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)

		return fmt.Errorf("failed to store presets for %s: %w", ns, err)
	}

	return nil
}

// Presets returns every preset of the namespace.
func (fp *Persistence) Presets(_ context.Context, ns persistence.Namespace) (models.PresetCollection, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	return fp.read(ns)
}

// PresetByName returns one preset or persistence.ErrPresetNotFound.
func (fp *Persistence) PresetByName(_ context.Context, ns persistence.Namespace, name string) (models.PresetEntry, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	collection, err := fp.read(ns)
	if err != nil {
		return models.PresetEntry{}, err
	}

	entry, ok := collection[name]
	if !ok {
		return models.PresetEntry{}, persistence.NewPresetError("Get", ns, name, persistence.ErrPresetNotFound)
	}

	return entry, nil
}

// SavePreset creates or overwrites a preset.
func (fp *Persistence) SavePreset(_ context.Context, ns persistence.Namespace, name string, entry models.PresetEntry) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	collection, err := fp.read(ns)
	if err != nil {
		return err
	}

	collection[name] = entry

	return fp.write(ns, collection)
}

// DeletePreset removes a preset. Deleting a missing preset is not an error.
func (fp *Persistence) DeletePreset(_ context.Context, ns persistence.Namespace, name string) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	collection, err := fp.read(ns)
	if err != nil {
		return err
	}

	if _, ok := collection[name]; !ok {
		return nil
	}

	delete(collection, name)

	return fp.write(ns, collection)
}

// ImportPresets merges incoming into the namespace; incoming wins on collision.
func (fp *Persistence) ImportPresets(_ context.Context, ns persistence.Namespace, incoming models.PresetCollection) (int, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	collection, err := fp.read(ns)
	if err != nil {
		return 0, err
	}

	if err := fp.write(ns, persistence.MergeCollections(collection, incoming)); err != nil {
		return 0, err
	}

	return len(incoming), nil
}
