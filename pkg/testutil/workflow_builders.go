// Package testutil provides test data builders for workflows and their
// variable records.
package testutil

import (
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/google/uuid"
)

// CreateTestWorkflow creates a workflow with a random id, profiles enabled
// and no variables or steps. Overrides are applied in order.
func CreateTestWorkflow(overrides ...func(*models.Workflow)) *models.Workflow {
	wf := &models.Workflow{
		ID:             "wf-" + uuid.NewString(),
		Title:          "Test Workflow",
		ProfileEnabled: true,
	}

	for _, override := range overrides {
		override(wf)
	}

	return wf
}

// WithID sets the workflow id.
func WithID(id string) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.ID = id
	}
}

// WithProfileEnabled toggles profile resolution for the workflow.
func WithProfileEnabled(enabled bool) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.ProfileEnabled = enabled
	}
}

// WithWorkflowVar appends a workflow-level variable record.
func WithWorkflowVar(record map[string]any) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Variables = append(w.Variables, record)
	}
}

// WithStep appends a step that uses shared variables.
func WithStep(id, prompt string, records ...map[string]any) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Steps = append(w.Steps, models.Step{
			ID:             id,
			Title:          id,
			Prompt:         prompt,
			UsesSharedVars: true,
			Variables:      records,
		})
	}
}

// WorkflowVar builds a workflow variable record in the current schema.
func WorkflowVar(key, varType string, required bool) map[string]any {
	return map[string]any{
		"workflow_var_key":      key,
		"workflow_var_type":     varType,
		"workflow_var_required": required,
	}
}

// StepVar builds a step variable record in the current schema.
func StepVar(key, varType string, required bool) map[string]any {
	return map[string]any{
		"step_var_key":      key,
		"step_var_type":     varType,
		"step_var_required": required,
	}
}
