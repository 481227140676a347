package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWorkflow = `
id: wf-cli
title: Launch post
profile_enabled: true
variables:
  - workflow_var_key: goal
    workflow_var_label: Goal
    workflow_var_required: true
steps:
  - id: draft
    title: Draft
    uses_shared_vars: true
    prompt: "Write about {goal} for {company_name} in a {tone|neutral} tone."
    variables:
      - step_var_key: tone
        step_var_type: select
        step_var_options: [formal, friendly]
      - step_var_key: cta
        step_var_type: boolean
`

type fixture struct {
	dir      string
	workflow string
	profile  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	f := &fixture{
		dir:      dir,
		workflow: filepath.Join(dir, "workflow.yaml"),
		profile:  filepath.Join(dir, "profile.yaml"),
	}

	require.NoError(t, os.WriteFile(f.workflow, []byte(testWorkflow), 0o600))
	require.NoError(t, os.WriteFile(f.profile, []byte("company_name: Acme\n"), 0o600))

	return f
}

func (f *fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	command := newCommand()
	command.Writer = &out

	base := []string{
		"promptfinder",
		"--workflow", f.workflow,
		"--profile", f.profile,
		"--storage-url", "file://" + filepath.Join(f.dir, "store"),
		"--user", "7",
	}

	err := command.Run(context.Background(), append(base, args...))

	return out.String(), err
}

func TestFill_AppliesEditsAndKeepsDraft(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	out, err := f.run(t, "fill")
	require.NoError(t, err)
	assert.Contains(t, out, "Write about {goal} for Acme in a neutral tone.")
	assert.Contains(t, out, "missing: goal")

	out, err = f.run(t, "fill", "--set", "goal=the launch", "--set", "tone=formal", "--set", "cta=true")
	require.NoError(t, err)
	assert.Contains(t, out, "Write about the launch for Acme in a formal tone.")
	assert.NotContains(t, out, "missing:")

	// the draft written on exit is hydrated by the next run
	out, err = f.run(t, "fill", "--step", "draft")
	require.NoError(t, err)
	assert.Contains(t, out, "Write about the launch for Acme in a formal tone.")

	out, err = f.run(t, "fill", "--discard-draft")
	require.NoError(t, err)
	assert.Contains(t, out, "missing: goal")
}

func TestFill_Errors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.run(t, "fill", "--set", "nope=1")
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnknownField)

	_, err = f.run(t, "fill", "--set", "goal")
	assert.Error(t, err)

	_, err = f.run(t, "fill", "--step", "ghost")
	assert.Error(t, err)

	_, err = f.run(t, "fill", "--set", "cta=maybe")
	assert.Error(t, err)
}

func TestPresets_Lifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.run(t, "fill", "--set", "goal=Monday plan")
	require.NoError(t, err)

	out, err := f.run(t, "presets", "save", "Monday")
	require.NoError(t, err)
	assert.Contains(t, out, `saved "Monday" (local)`)

	out, err = f.run(t, "presets", "list")
	require.NoError(t, err)
	assert.Equal(t, "Monday\n", out)

	export := filepath.Join(f.dir, "export.json")
	_, err = f.run(t, "presets", "export", "--out", export)
	require.NoError(t, err)

	blob, err := os.ReadFile(export)
	require.NoError(t, err)
	assert.Contains(t, string(blob), "Monday plan")

	_, err = f.run(t, "fill", "--discard-draft")
	require.NoError(t, err)

	out, err = f.run(t, "presets", "load", "Monday")
	require.NoError(t, err)
	assert.Contains(t, out, `loaded "Monday"`)

	out, err = f.run(t, "fill")
	require.NoError(t, err)
	assert.Contains(t, out, "Write about Monday plan for Acme")

	_, err = f.run(t, "presets", "delete", "Monday")
	require.NoError(t, err)

	out, err = f.run(t, "presets", "list")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = f.run(t, "presets", "import", export)
	require.NoError(t, err)

	out, err = f.run(t, "presets", "list")
	require.NoError(t, err)
	assert.Equal(t, "Monday\n", out)

	out, err = f.run(t, "presets", "migrate")
	require.NoError(t, err)
	assert.Equal(t, "nothing to migrate\n", out)

	_, err = f.run(t, "presets", "load", "absent")
	assert.ErrorIs(t, err, errPresetFailed)

	_, err = f.run(t, "presets", "save")
	assert.Error(t, err)
}

func TestProfile_HidesSystemKeys(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.profile, []byte("company_name: Acme\nsys_plan: pro\nregion: eu\n"), 0o600))

	out, err := f.run(t, "profile")
	require.NoError(t, err)

	assert.Equal(t, "company_name=Acme\nregion=eu\n", out)
}
