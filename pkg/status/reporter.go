// Package status derives the aggregate completion counters of a page from
// the registry and the resolver, and drives the shared progress indicator.
package status

import (
	"sync"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/registry"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/resolver"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/validation"
)

// Counts is the aggregate completion of a page.
type Counts struct {
	Filled int `json:"filled"`
	Total  int `json:"total"`
}

// Complete reports whether every key is filled and there is at least one.
func (c Counts) Complete() bool {
	return c.Total > 0 && c.Filled == c.Total
}

// Percent is the rounded share of filled keys, 0 for an empty page.
func (c Counts) Percent() int {
	if c.Total == 0 {
		return 0
	}

	return (c.Filled*100 + c.Total/2) / c.Total
}

// Section is one rendered step with its own profile gate.
type Section struct {
	StepID       string
	StepMap      *registry.Map
	AllowProfile bool
}

// Reporter recomputes Counts over the workflow map and every registered
// step section, not only the active one.
type Reporter struct {
	engine       *resolver.Engine
	workflowMap  *registry.Map
	allowProfile bool
	indicator    *Indicator

	mu       sync.Mutex
	sections []Section
}

// NewReporter creates a reporter. allowProfile gates the profile tier for
// keys counted in workflow scope; step keys use their section's own gate.
func NewReporter(engine *resolver.Engine, workflowMap *registry.Map, allowProfile bool, indicator *Indicator) *Reporter {
	return &Reporter{
		engine:       engine,
		workflowMap:  workflowMap,
		allowProfile: allowProfile,
		indicator:    indicator,
	}
}

// AddSection registers a step section. Registering a step id again replaces it.
func (r *Reporter) AddSection(s Section) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.sections {
		if r.sections[i].StepID == s.StepID {
			r.sections[i] = s

			return
		}
	}

	r.sections = append(r.sections, s)
}

// RemoveSection unregisters a step section.
func (r *Reporter) RemoveSection(stepID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.sections {
		if r.sections[i].StepID == stepID {
			r.sections = append(r.sections[:i], r.sections[i+1:]...)

			return
		}
	}
}

type occurrence struct {
	def *models.VariableDefinition
	ctx resolver.Context
}

// Recompute walks every key once, de-duplicated by normalized key. A key is
// filled when it resolves to a valid real entry in any context it occurs in.
// The result is pushed to the indicator, if any.
func (r *Reporter) Recompute() Counts {
	r.mu.Lock()
	sections := make([]Section, len(r.sections))
	copy(sections, r.sections)
	r.mu.Unlock()

	var order []string

	occurrences := map[string][]occurrence{}
	add := func(key string, o occurrence) {
		if _, seen := occurrences[key]; !seen {
			order = append(order, key)
		}

		occurrences[key] = append(occurrences[key], o)
	}

	workflowCtx := resolver.Context{WorkflowMap: r.workflowMap, AllowProfile: r.allowProfile}
	for _, key := range r.workflowMap.Keys() {
		def, _ := r.workflowMap.Get(key)
		add(key, occurrence{def: def, ctx: workflowCtx})
	}

	for _, s := range sections {
		ctx := resolver.Context{
			StepID:       s.StepID,
			StepMap:      s.StepMap,
			WorkflowMap:  r.workflowMap,
			AllowProfile: s.AllowProfile,
		}

		for _, key := range s.StepMap.Keys() {
			def, _ := s.StepMap.Get(key)
			add(key, occurrence{def: def, ctx: ctx})
		}
	}

	counts := Counts{Total: len(order)}

	for _, key := range order {
		for _, o := range occurrences[key] {
			if r.filled(key, o) {
				counts.Filled++

				break
			}
		}
	}

	if r.indicator != nil {
		r.indicator.Update(counts)
	}

	return counts
}

func (r *Reporter) filled(key string, o occurrence) bool {
	res := r.engine.Resolve(key, o.ctx)
	if !res.Resolved {
		return false
	}

	if o.def == nil {
		return true
	}

	if o.def.Type == models.TypeBoolean {
		return models.IsChecked(res.Value)
	}

	state, _ := validation.Evaluate(o.def, res.Value, true, models.TriggerChange)

	return state != models.ValidationInvalid
}
