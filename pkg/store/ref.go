package store

import (
	"strings"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
)

// stepSeparator joins a key and its step id in the flat encoding. Normalized
// keys never contain it.
const stepSeparator = "@"

// Ref addresses one cell of the store.
type Ref struct {
	Scope  models.Scope
	StepID string
	Key    string
}

// WorkflowRef addresses the workflow-scoped cell for key.
func WorkflowRef(key string) Ref {
	return Ref{Scope: models.ScopeWorkflow, Key: key}
}

// StepRef addresses the cell for key owned by step stepID.
func StepRef(stepID, key string) Ref {
	return Ref{Scope: models.ScopeStep, StepID: stepID, Key: key}
}

// String returns the flat encoding used in snapshots: the bare key for
// workflow cells, "key@step" for step cells.
func (r Ref) String() string {
	if r.Scope == models.ScopeStep {
		return r.Key + stepSeparator + r.StepID
	}

	return r.Key
}

// ParseRef decodes the flat encoding produced by Ref.String. Bare keys, as
// written by older flat snapshots, decode to workflow cells.
func ParseRef(s string) Ref {
	key, stepID, found := strings.Cut(s, stepSeparator)
	if !found || stepID == "" {
		return WorkflowRef(s)
	}

	return StepRef(stepID, key)
}
