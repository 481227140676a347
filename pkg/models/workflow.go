package models

// Workflow is the page-level configuration of one prompt workflow as handed
// over by the templating layer. Variables hold raw, loosely typed records.
type Workflow struct {
	ID             string           `json:"id"              yaml:"id"              validate:"required"`
	Title          string           `json:"title"           yaml:"title"`
	ProfileEnabled bool             `json:"profile_enabled" yaml:"profile_enabled"`
	Variables      []map[string]any `json:"variables"       yaml:"variables"`
	Steps          []Step           `json:"steps"           yaml:"steps"           validate:"dive"`
}

// Step is one section of a workflow.
type Step struct {
	ID             string           `json:"id"               yaml:"id"               validate:"required"`
	Title          string           `json:"title"            yaml:"title"`
	Prompt         string           `json:"prompt"           yaml:"prompt"`
	UsesSharedVars bool             `json:"uses_shared_vars" yaml:"uses_shared_vars"`
	Variables      []map[string]any `json:"variables"        yaml:"variables"`
}

// Step returns the step with the given id.
func (w *Workflow) Step(id string) (*Step, bool) {
	for i := range w.Steps {
		if w.Steps[i].ID == id {
			return &w.Steps[i], true
		}
	}

	return nil, false
}
