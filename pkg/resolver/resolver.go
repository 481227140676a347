// Package resolver decides which value wins for a variable key across the
// step, workflow and profile tiers, and where it came from.
package resolver

import (
	"strings"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/keys"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/registry"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/store"
)

// Context is everything resolution needs to know about the step being rendered.
// A workflow-level control uses a Context with a nil StepMap.
type Context struct {
	StepID       string
	StepMap      *registry.Map
	WorkflowMap  *registry.Map
	AllowProfile bool
}

// Result is the winning value for a key and its provenance.
type Result struct {
	Value string
	// Resolved is true only for a real entry from the step, workflow or
	// profile tier. A definition default is returned with Resolved false.
	Resolved bool
	Tier     models.Tier
	// FromDefault is set when Value is the definition's default value.
	FromDefault bool
}

// Usable reports whether Value may be shown or interpolated.
func (r Result) Usable() bool {
	return r.Resolved || r.FromDefault
}

// AllowProfile is true only when the step opts into shared profile values
// and the profile feature is enabled for the workflow.
func AllowProfile(stepUsesSharedVars, profileEnabled bool) bool {
	return stepUsesSharedVars && profileEnabled
}

// IsResolved reports whether v is a usable entry: not empty after trimming
// and not an unresolved "{...}" placeholder token.
func IsResolved(v string) bool {
	return strings.TrimSpace(v) != "" && !keys.IsPlaceholderToken(v)
}

// Engine resolves keys against a form store and an optional profile source.
type Engine struct {
	store   *store.Store
	profile ProfileSource
}

func NewEngine(s *store.Store, profile ProfileSource) *Engine {
	return &Engine{store: s, profile: profile}
}

// Resolve applies step > workflow > profile > default > unset. A lower tier
// is never consulted once a higher one supplies a resolved value.
func (e *Engine) Resolve(key string, ctx Context) Result {
	stepDef, inStep := ctx.StepMap.Get(key)
	workflowDef, inWorkflow := ctx.WorkflowMap.Get(key)

	if inStep {
		if v := e.store.Value(store.StepRef(ctx.StepID, key)); IsResolved(v) {
			return Result{Value: v, Resolved: true, Tier: models.TierStep}
		}

		// flat snapshots from the original store carry step-only keys bare
		if !inWorkflow {
			if v := e.store.Value(store.WorkflowRef(key)); IsResolved(v) {
				return Result{Value: v, Resolved: true, Tier: models.TierStep}
			}
		}
	}

	if inWorkflow {
		if v := e.store.Value(store.WorkflowRef(key)); IsResolved(v) {
			return Result{Value: v, Resolved: true, Tier: models.TierWorkflow}
		}
	}

	def, owner := stepDef, models.ScopeStep
	if !inStep {
		def, owner = workflowDef, models.ScopeWorkflow
	}

	if ctx.AllowProfile && e.profile != nil {
		if v, ok := e.lookupProfile(key, def); ok {
			return Result{Value: v, Resolved: true, Tier: models.TierProfile}
		}
	}

	if def != nil && def.DefaultValue != "" {
		return Result{Value: def.DefaultValue, Tier: models.TierForScope(owner), FromDefault: true}
	}

	return Result{Tier: models.TierUnset}
}

// Lookup returns the value to substitute for key and whether there is one.
func (e *Engine) Lookup(key string, ctx Context) (string, bool) {
	r := e.Resolve(key, ctx)

	return r.Value, r.Usable()
}

func (e *Engine) lookupProfile(key string, def *models.VariableDefinition) (string, bool) {
	if v, ok := e.profile.Lookup(key); ok && IsResolved(v) {
		return v, true
	}

	if def != nil && def.ProfileKey != "" && def.ProfileKey != key {
		if v, ok := e.profile.Lookup(def.ProfileKey); ok && IsResolved(v) {
			return v, true
		}
	}

	return "", false
}
