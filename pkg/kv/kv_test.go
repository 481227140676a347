package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "pf_presets:wf-1:42", []byte(`{"a":1}`)))
	require.NoError(t, s.Set(ctx, "pf_draft:wf-1:42", []byte(`{"goal":"x"}`)))

	body, ok, err := s.Get(ctx, "pf_presets:wf-1:42")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(body))

	require.NoError(t, s.Set(ctx, "pf_presets:wf-1:42", []byte(`{"a":2}`)))
	body, _, err = s.Get(ctx, "pf_presets:wf-1:42")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(body))

	require.NoError(t, s.Delete(ctx, "pf_presets:wf-1:42"))
	_, ok, err = s.Get(ctx, "pf_presets:wf-1:42")
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting twice is fine
	require.NoError(t, s.Delete(ctx, "pf_presets:wf-1:42"))

	_, ok, err = s.Get(ctx, "pf_draft:wf-1:42")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory(t *testing.T) {
	t.Parallel()

	s := NewMemory(0)
	defer func() { _ = s.Close() }()

	exerciseStore(t, s)
}

func TestMemory_Quota(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemory(10)

	require.NoError(t, s.Set(ctx, "a", []byte("12345")))
	require.NoError(t, s.Set(ctx, "a", []byte("1234567890")), "overwriting does not count the old value")
	assert.ErrorIs(t, s.Set(ctx, "b", []byte("x")), ErrQuotaExceeded)
}

func TestFile(t *testing.T) {
	t.Parallel()

	s := NewFile(filepath.Join(t.TempDir(), "storage"))
	exerciseStore(t, s)
}

func TestSQLite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	s, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)

	defer func() {
		assert.NoError(t, s.Close())
	}()

	exerciseStore(t, s)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, "memory://")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, "file://"+dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.(*File).root)

	s, err = Open(ctx, dir)
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	s, err = Open(ctx, "sqlite://"+filepath.Join(dir, "x.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, "mongodb://localhost")
	assert.Error(t, err)
}
