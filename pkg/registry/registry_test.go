package registry_test

import (
	"log/slog"
	"testing"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/keys"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() *registry.Registry {
	return registry.NewRegistry(slog.Default())
}

func TestBuildMap_WorkflowRecords(t *testing.T) {
	t.Parallel()

	m := newRegistry().BuildMap(models.ScopeWorkflow, []map[string]any{
		{
			"workflow_var_key":           "Target Audience",
			"workflow_var_label":         "Target audience",
			"workflow_var_type":          "textarea",
			"workflow_var_required":      "1",
			"workflow_var_placeholder":   "Who reads this?",
			"workflow_var_hint":          "Be specific",
			"workflow_var_default_value": "developers",
			"workflow_var_prefer_system": true,
		},
		{
			"workflow_var_key":          "tone",
			"workflow_var_type":         "select",
			"workflow_var_options_json": `[{"value":"friendly","label":"Friendly"},"formal"]`,
		},
	})

	require.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"targetaudience", "tone"}, m.Keys())
	assert.Equal(t, models.ScopeWorkflow, m.Scope())

	def, ok := m.Get("targetaudience")
	require.True(t, ok)
	assert.Equal(t, "Target audience", def.Label)
	assert.Equal(t, models.TypeTextarea, def.Type)
	assert.True(t, def.Required)
	assert.Equal(t, "Who reads this?", def.Placeholder)
	assert.Equal(t, "Be specific", def.Hint)
	assert.Equal(t, "developers", def.DefaultValue)
	assert.True(t, def.PreferProfile)

	tone, ok := m.Get("tone")
	require.True(t, ok)
	assert.Equal(t, models.TypeSelect, tone.Type)
	assert.Equal(t, []models.Option{
		{Value: "friendly", Label: "Friendly"},
		{Value: "formal", Label: "formal"},
	}, tone.Options)
}

func TestBuildMap_StepRecords(t *testing.T) {
	t.Parallel()

	m := newRegistry().BuildMap(models.ScopeStep, []map[string]any{
		{"step_var_key": "word_count", "step_var_type": "number", "step_var_required": true},
	})

	def, ok := m.Get("word_count")
	require.True(t, ok)
	assert.Equal(t, models.TypeNumber, def.Type)
	assert.True(t, def.Required)
	assert.False(t, m.Has("tone"))
}

func TestBuildMap_LegacyShape(t *testing.T) {
	t.Parallel()

	m := newRegistry().BuildMap(models.ScopeStep, []map[string]any{
		{
			"var_name":        "Company Name",
			"var_description": "Your company",
			"example_value":   "ACME Inc.",
			"required":        "yes",
		},
	})

	def, ok := m.Get("companyname")
	require.True(t, ok)
	assert.Equal(t, "Company Name", def.Label)
	assert.Equal(t, "Your company", def.Hint)
	assert.Equal(t, "ACME Inc.", def.Placeholder)
	assert.True(t, def.Required)
	assert.Equal(t, models.TypeText, def.Type)
}

func TestBuildMap_KeyFallbacks(t *testing.T) {
	t.Parallel()

	m := newRegistry().BuildMap(models.ScopeWorkflow, []map[string]any{
		{"workflow_var_label": "Main Goal"},
		{"workflow_var_key": "  ", "workflow_var_hint": "nothing to name me"},
	})

	assert.True(t, m.Has("maingoal"))
	assert.True(t, m.Has(keys.Placeholder))
}

func TestBuildMap_LastEntryWins(t *testing.T) {
	t.Parallel()

	m := newRegistry().BuildMap(models.ScopeWorkflow, []map[string]any{
		{"workflow_var_key": "goal", "workflow_var_label": "First"},
		{"workflow_var_key": "other"},
		{"workflow_var_key": "GOAL", "workflow_var_label": "Second"},
	})

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"goal", "other"}, m.Keys())

	def, _ := m.Get("goal")
	assert.Equal(t, "Second", def.Label)
}

func TestBuildMap_MalformedOptionsDegradeToText(t *testing.T) {
	t.Parallel()

	m := newRegistry().BuildMap(models.ScopeWorkflow, []map[string]any{
		{"workflow_var_key": "broken", "workflow_var_type": "select", "workflow_var_options_json": "{not json"},
		{"workflow_var_key": "wrong_shape", "workflow_var_type": "select", "workflow_var_options_json": `{"a":1}`},
		{"workflow_var_key": "missing", "workflow_var_type": "select"},
		{"workflow_var_key": "fine", "workflow_var_type": "select", "workflow_var_options_json": []any{"a", "b"}},
	})

	require.Equal(t, 4, m.Len())

	for _, key := range []string{"broken", "wrong_shape", "missing"} {
		def, ok := m.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, models.TypeText, def.Type, key)
		assert.Empty(t, def.Options, key)
	}

	fine, _ := m.Get("fine")
	assert.Equal(t, models.TypeSelect, fine.Type)
	assert.Len(t, fine.Options, 2)
}

func TestParseDefinitions(t *testing.T) {
	t.Parallel()

	r := newRegistry()

	m := r.ParseDefinitions(models.ScopeStep, []byte(`[{"step_var_key":"tone","step_var_required":true}]`))
	assert.True(t, m.Has("tone"))

	m = r.ParseDefinitions(models.ScopeStep, []byte(`not json`))
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, models.ScopeStep, m.Scope())

	m = r.ParseDefinitions(models.ScopeStep, nil)
	assert.Equal(t, 0, m.Len())
}

func TestNilMap(t *testing.T) {
	t.Parallel()

	var m *registry.Map

	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
	assert.False(t, m.Has("x"))
}

func TestParseOptions_Numbers(t *testing.T) {
	t.Parallel()

	options, err := registry.ParseOptions(`[1, 2.5, {"value": 3, "label": "Three"}]`)
	require.NoError(t, err)
	assert.Equal(t, []models.Option{
		{Value: "1", Label: "1"},
		{Value: "2.5", Label: "2.5"},
		{Value: "3", Label: "Three"},
	}, options)

	_, err = registry.ParseOptions(`[]`)
	assert.ErrorIs(t, err, registry.ErrInvalidOptions)

	_, err = registry.ParseOptions(`[{"label":"no value"}]`)
	assert.ErrorIs(t, err, registry.ErrInvalidOptions)
}

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	fields := registry.Canonicalize(models.ScopeStep, map[string]any{
		"step_var_key":   "",
		"var_name":       "Legacy Name",
		"step_var_label": "Modern label",
		"unrelated":      "dropped",
	})

	assert.Equal(t, "Legacy Name", fields[registry.FieldKey])
	assert.Equal(t, "Modern label", fields[registry.FieldLabel])
	assert.NotContains(t, fields, "unrelated")
}
