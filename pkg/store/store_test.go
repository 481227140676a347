package store

import (
	"testing"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_RoundTrip(t *testing.T) {
	t.Parallel()

	refs := []Ref{
		WorkflowRef("goal"),
		StepRef("2", "tone"),
		StepRef("intro-step", "word_count"),
	}

	for _, ref := range refs {
		assert.Equal(t, ref, ParseRef(ref.String()))
	}

	assert.Equal(t, "goal", WorkflowRef("goal").String())
	assert.Equal(t, "tone@2", StepRef("2", "tone").String())
	assert.Equal(t, WorkflowRef("legacy"), ParseRef("legacy"))
	assert.Equal(t, WorkflowRef("odd@"), ParseRef("odd@"))
}

func TestStore_SetGetDelete(t *testing.T) {
	t.Parallel()

	s := New()
	ref := WorkflowRef("goal")

	_, ok := s.Get(ref)
	assert.False(t, ok)

	s.Set(ref, "launch")
	v, ok := s.Get(ref)
	require.True(t, ok)
	assert.Equal(t, "launch", v)

	s.Set(ref, "")
	v, ok = s.Get(ref)
	assert.True(t, ok, "empty string is a stored value, not unset")
	assert.Equal(t, "", v)

	s.Delete(ref)
	_, ok = s.Get(ref)
	assert.False(t, ok)
}

func TestStore_ScopesDoNotCollide(t *testing.T) {
	t.Parallel()

	s := New()
	s.Set(WorkflowRef("tone"), "formal")
	s.Set(StepRef("1", "tone"), "friendly")
	s.Set(StepRef("2", "tone"), "neutral")

	assert.Equal(t, "formal", s.Value(WorkflowRef("tone")))
	assert.Equal(t, "friendly", s.Value(StepRef("1", "tone")))
	assert.Equal(t, "neutral", s.Value(StepRef("2", "tone")))
	assert.Equal(t, models.Snapshot{
		"tone":   "formal",
		"tone@1": "friendly",
		"tone@2": "neutral",
	}, s.Snapshot())
}

func TestStore_RestoreReplacesWholesale(t *testing.T) {
	t.Parallel()

	s := New()
	s.Set(WorkflowRef("x"), "1")
	s.Set(WorkflowRef("y"), "2")
	saved := s.Snapshot()

	s.Clear()
	assert.Equal(t, 0, s.Len())

	s.Set(WorkflowRef("unrelated"), "keep?")
	s.Restore(saved)

	assert.Equal(t, models.Snapshot{"x": "1", "y": "2"}, s.Snapshot())
	assert.True(t, s.Dirty())
}

func TestStore_DirtyTracking(t *testing.T) {
	t.Parallel()

	s := New()
	assert.False(t, s.Dirty())

	s.Hydrate(models.Snapshot{"goal": "draft"})
	assert.False(t, s.Dirty(), "hydration does not dirty the store")

	s.Set(WorkflowRef("goal"), "edited")
	assert.True(t, s.Dirty())

	v := s.Version()
	s.Set(WorkflowRef("goal"), "edited again")

	assert.False(t, s.MarkClean(v), "an edit after the read keeps the store dirty")
	assert.True(t, s.Dirty())

	assert.True(t, s.MarkClean(s.Version()))
	assert.False(t, s.Dirty())
}

func TestStore_Observers(t *testing.T) {
	t.Parallel()

	s := New()
	ref := StepRef("1", "tone")

	var cellChanges, allChanges []Change

	unsubscribe := s.Subscribe(ref, func(c Change) { cellChanges = append(cellChanges, c) })
	s.SubscribeAll(func(c Change) { allChanges = append(allChanges, c) })

	s.Set(ref, "friendly")
	s.Set(WorkflowRef("tone"), "formal")
	s.Delete(ref)

	require.Len(t, cellChanges, 2)
	assert.Equal(t, Change{Ref: ref, New: "friendly"}, cellChanges[0])
	assert.Equal(t, Change{Ref: ref, Old: "friendly", Deleted: true}, cellChanges[1])
	assert.Len(t, allChanges, 3)

	unsubscribe()
	s.Set(ref, "again")
	assert.Len(t, cellChanges, 2)
	assert.Len(t, allChanges, 4)
}

func TestStore_ObserverMayReadStore(t *testing.T) {
	t.Parallel()

	s := New()
	ref := WorkflowRef("goal")

	var seen string

	s.Subscribe(ref, func(Change) { seen = s.Value(ref) })
	s.Set(ref, "visible")

	assert.Equal(t, "visible", seen)
}

func TestStore_RestoreNotifiesChangedCells(t *testing.T) {
	t.Parallel()

	s := New()
	s.Set(WorkflowRef("a"), "1")
	s.Set(WorkflowRef("b"), "2")

	changed := map[string]Change{}
	s.SubscribeAll(func(c Change) { changed[c.Ref.String()] = c })

	s.Restore(models.Snapshot{"b": "2", "c": "3"})

	assert.Len(t, changed, 2)
	assert.True(t, changed["a"].Deleted)
	assert.Equal(t, "3", changed["c"].New)
}

func TestStore_Teardown(t *testing.T) {
	t.Parallel()

	s := New()

	calls := 0
	s.SubscribeAll(func(Change) { calls++ })
	s.Teardown()

	s.Set(WorkflowRef("x"), "1")
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, s.Len())
}
