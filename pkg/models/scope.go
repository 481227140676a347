package models

// Scope is where a variable definition lives.
type Scope string

const (
	ScopeWorkflow Scope = "workflow" // shared by every step of a workflow
	ScopeStep     Scope = "step"     // owned by exactly one step
)

// Tier is the provenance of a resolved value, highest precedence first.
type Tier string

const (
	TierStep     Tier = "step"
	TierWorkflow Tier = "workflow"
	TierProfile  Tier = "profile"
	TierUnset    Tier = "unset"
)

// TierForScope returns the tier a definition owned by scope resolves to.
func TierForScope(s Scope) Tier {
	if s == ScopeStep {
		return TierStep
	}

	return TierWorkflow
}

// ValidationState is the per-control validation status.
type ValidationState string

const (
	ValidationPristine ValidationState = "pristine"
	ValidationValid    ValidationState = "valid"
	ValidationInvalid  ValidationState = "invalid"
)

// Trigger is the UI event that caused a validation pass.
type Trigger string

const (
	TriggerRender Trigger = "render"
	TriggerInput  Trigger = "input"
	TriggerChange Trigger = "change"
	TriggerBlur   Trigger = "blur"
)
