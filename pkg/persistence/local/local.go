// Package local implements the preset adapter and draft storage on top of a
// kv.Store, namespaced by workflow and user.
package local

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/kv"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/jonboulle/clockwork"
)

const (
	presetsPrefix = "pf_presets:"
	draftPrefix   = "pf_draft:"
)

// PresetsKey is the storage key of the preset collection of ns.
func PresetsKey(ns persistence.Namespace) string {
	return presetsPrefix + ns.String()
}

// DraftKey is the storage key of the autosaved draft of ns.
func DraftKey(ns persistence.Namespace) string {
	return draftPrefix + ns.String()
}

// Adapter implements persistence.Adapter against a kv.Store.
type Adapter struct {
	store kv.Store
	ns    persistence.Namespace
	clock clockwork.Clock
}

var _ persistence.Adapter = (*Adapter)(nil)

// New creates a local adapter. A nil clock means the real clock.
func New(store kv.Store, ns persistence.Namespace, clock clockwork.Clock) *Adapter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Adapter{store: store, ns: ns, clock: clock}
}

func (a *Adapter) collection(ctx context.Context) (models.PresetCollection, error) {
	body, ok, err := a.store.Get(ctx, PresetsKey(a.ns))
	if err != nil {
		return nil, persistence.NewPresetError("Read", a.ns, "", err)
	}

	if !ok {
		return models.PresetCollection{}, nil
	}

	c, err := persistence.DecodeCollection(body)
	if err != nil {
		return nil, persistence.NewPresetError("Read", a.ns, "", err)
	}

	return c, nil
}

func (a *Adapter) write(ctx context.Context, op string, c models.PresetCollection) error {
	body, err := persistence.EncodeCollection(c)
	if err != nil {
		return persistence.NewPresetError(op, a.ns, "", err)
	}

	if err := a.store.Set(ctx, PresetsKey(a.ns), body); err != nil {
		return persistence.NewPresetError(op, a.ns, "", err)
	}

	return nil
}

func (a *Adapter) List(ctx context.Context) ([]string, error) {
	c, err := a.collection(ctx)
	if err != nil {
		return nil, err
	}

	return c.Names(), nil
}

func (a *Adapter) Get(ctx context.Context, name string) (models.Snapshot, error) {
	c, err := a.collection(ctx)
	if err != nil {
		return nil, err
	}

	entry, ok := c[name]
	if !ok {
		return nil, persistence.NewPresetError("Get", a.ns, name, persistence.ErrPresetNotFound)
	}

	return entry.Data.Clone(), nil
}

func (a *Adapter) Save(ctx context.Context, name string, snapshot models.Snapshot) error {
	valid, err := persistence.ValidatePresetName(name)
	if err != nil {
		return persistence.NewPresetError("Save", a.ns, name, err)
	}

	c, err := a.collection(ctx)
	if err != nil {
		return err
	}

	c[valid] = models.NewPresetEntry(snapshot, a.clock.Now())

	return a.write(ctx, "Save", c)
}

func (a *Adapter) Delete(ctx context.Context, name string) error {
	c, err := a.collection(ctx)
	if err != nil {
		return err
	}

	if _, ok := c[name]; !ok {
		return nil
	}

	delete(c, name)

	return a.write(ctx, "Delete", c)
}

func (a *Adapter) ExportAll(ctx context.Context) ([]byte, error) {
	c, err := a.collection(ctx)
	if err != nil {
		return nil, err
	}

	return persistence.EncodeCollection(c)
}

// ImportAll merges blob into the stored collection; imported presets win on
// name collision.
func (a *Adapter) ImportAll(ctx context.Context, blob []byte) error {
	incoming, err := persistence.DecodeCollection(blob)
	if err != nil {
		return persistence.NewPresetError("Import", a.ns, "", err)
	}

	c, err := a.collection(ctx)
	if err != nil {
		return err
	}

	return a.write(ctx, "Import", persistence.MergeCollections(c, incoming))
}

// Drafts stores the single autosaved draft of a namespace.
type Drafts struct {
	store kv.Store
	ns    persistence.Namespace
	clock clockwork.Clock
}

// NewDrafts creates draft storage. A nil clock means the real clock.
func NewDrafts(store kv.Store, ns persistence.Namespace, clock clockwork.Clock) *Drafts {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Drafts{store: store, ns: ns, clock: clock}
}

// Load returns the stored draft, or false when there is none.
func (d *Drafts) Load(ctx context.Context) (models.Snapshot, bool, error) {
	body, ok, err := d.store.Get(ctx, DraftKey(d.ns))
	if err != nil || !ok {
		return nil, false, err
	}

	var entry models.PresetEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal draft for %s: %w", d.ns, err)
	}

	if entry.Data == nil {
		entry.Data = models.Snapshot{}
	}

	return entry.Data, true, nil
}

func (d *Drafts) Save(ctx context.Context, snapshot models.Snapshot) error {
	body, err := json.Marshal(models.NewPresetEntry(snapshot, d.clock.Now()))
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	if err := d.store.Set(ctx, DraftKey(d.ns), body); err != nil {
		return fmt.Errorf("failed to save draft for %s: %w", d.ns, err)
	}

	return nil
}

func (d *Drafts) Clear(ctx context.Context) error {
	if err := d.store.Delete(ctx, DraftKey(d.ns)); err != nil {
		return fmt.Errorf("failed to clear draft for %s: %w", d.ns, err)
	}

	return nil
}
