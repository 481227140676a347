// Package session wires one page view of a workflow: a single form store
// with its registry maps, resolver, controls, status reporter, draft
// autosaver and preset manager, created and torn down together.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/control"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/draft"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/kv"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence/local"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/presets"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/registry"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/resolver"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/status"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/store"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/template"
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
)

// ErrStepNotFound is returned for an unknown step id.
var ErrStepNotFound = errors.New("step not found")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the per-page settings.
type Config struct {
	UserID string
	// ProfileEnabled is the site-wide profile switch; the workflow must
	// enable profiles as well.
	ProfileEnabled      bool
	AutosaveInterval    time.Duration
	CompletionHideDelay time.Duration
}

// Deps are the services a session borrows. Storage is required; Server is
// optional and only used when ServerEnabled is set.
type Deps struct {
	Storage       kv.Store
	Server        persistence.Adapter
	ServerEnabled bool
	Profile       resolver.ProfileSource
	Clock         clockwork.Clock
	Logger        *slog.Logger
}

type stepState struct {
	step         *models.Step
	stepMap      *registry.Map
	allowProfile bool
	container    *control.Container
}

// Session is one page view.
type Session struct {
	workflow        *models.Workflow
	namespace       persistence.Namespace
	profileEnabled  bool
	logger          *slog.Logger
	store           *store.Store
	engine          *resolver.Engine
	workflowMap     *registry.Map
	steps           []*stepState
	workflowSection *control.Container
	indicator       *status.Indicator
	reporter        *status.Reporter
	autosaver       *draft.Autosaver
	presets         *presets.Manager
}

// New builds a session for workflow. Nothing is read from storage until Hydrate.
func New(cfg Config, workflow *models.Workflow, deps Deps) (*Session, error) {
	if workflow == nil {
		return nil, errors.New("workflow is required")
	}

	if err := validate.Struct(workflow); err != nil {
		return nil, fmt.Errorf("invalid workflow: %w", err)
	}

	if deps.Storage == nil {
		return nil, errors.New("storage is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With("workflow_id", workflow.ID)

	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	ns := persistence.NewNamespace(workflow.ID, cfg.UserID)
	reg := registry.NewRegistry(logger)
	s := store.New()

	sess := &Session{
		workflow:       workflow,
		namespace:      ns,
		profileEnabled: cfg.ProfileEnabled && workflow.ProfileEnabled,
		logger:         logger.With("module", "session"),
		store:          s,
		engine:         resolver.NewEngine(s, deps.Profile),
		workflowMap:    reg.BuildMap(models.ScopeWorkflow, workflow.Variables),
		indicator:      status.NewIndicator(clock, cfg.CompletionHideDelay),
	}

	sess.reporter = status.NewReporter(sess.engine, sess.workflowMap, sess.profileEnabled, sess.indicator)

	for i := range workflow.Steps {
		step := &workflow.Steps[i]
		st := &stepState{
			step:         step,
			stepMap:      reg.BuildMap(models.ScopeStep, step.Variables),
			allowProfile: resolver.AllowProfile(step.UsesSharedVars, sess.profileEnabled),
		}

		sess.steps = append(sess.steps, st)
		sess.reporter.AddSection(status.Section{StepID: step.ID, StepMap: st.stepMap, AllowProfile: st.allowProfile})
	}

	drafts := local.NewDrafts(deps.Storage, ns, clock)
	sess.autosaver = draft.NewAutosaver(s, drafts, clock, cfg.AutosaveInterval, logger)

	server := deps.Server
	if !deps.ServerEnabled {
		server = nil
	}

	sess.presets = presets.NewManager(s, local.New(deps.Storage, ns, clock), server, deps.ServerEnabled, logger)

	return sess, nil
}

// Hydrate starts autosaving and restores the stored draft, if any.
func (s *Session) Hydrate(ctx context.Context) bool {
	s.autosaver.Start(ctx)

	restored := s.autosaver.Hydrate(ctx)
	if restored {
		s.logger.DebugContext(ctx, "Draft restored", "cells", s.store.Len())
	}

	s.reporter.Recompute()

	return restored
}

// RenderAll renders the workflow section and every step section.
func (s *Session) RenderAll() {
	deps := control.Deps{Store: s.store, Engine: s.engine}

	s.workflowSection = control.NewContainer("pf-workflow-" + s.workflow.ID)
	workflowCtx := resolver.Context{WorkflowMap: s.workflowMap, AllowProfile: s.profileEnabled}

	for _, key := range s.workflowMap.Keys() {
		def, _ := s.workflowMap.Get(key)
		control.Render(s.workflowSection, models.ScopeWorkflow, key, def, workflowCtx, deps, s.onChange)
	}

	for _, st := range s.steps {
		st.container = control.NewContainer("pf-step-" + st.step.ID)
		ctx := s.stepContext(st)

		for _, key := range st.stepMap.Keys() {
			def, _ := st.stepMap.Get(key)
			control.Render(st.container, models.ScopeStep, key, def, ctx, deps, s.onChange)
		}
	}

	s.reporter.Recompute()
}

func (s *Session) onChange(src *control.Control) {
	for _, c := range s.containers() {
		c.RefreshExcept(src)
	}

	s.reporter.Recompute()
}

func (s *Session) containers() []*control.Container {
	var out []*control.Container

	if s.workflowSection != nil {
		out = append(out, s.workflowSection)
	}

	for _, st := range s.steps {
		if st.container != nil {
			out = append(out, st.container)
		}
	}

	return out
}

func (s *Session) stepContext(st *stepState) resolver.Context {
	return resolver.Context{
		StepID:       st.step.ID,
		StepMap:      st.stepMap,
		WorkflowMap:  s.workflowMap,
		AllowProfile: st.allowProfile,
	}
}

func (s *Session) stepState(stepID string) (*stepState, error) {
	for _, st := range s.steps {
		if st.step.ID == stepID {
			return st, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrStepNotFound, stepID)
}

// Prompt interpolates the prompt template of a step.
func (s *Session) Prompt(stepID string) (string, error) {
	st, err := s.stepState(stepID)
	if err != nil {
		return "", err
	}

	return template.Interpolate(st.step.Prompt, template.ResolverLookup(s.engine, s.stepContext(st))), nil
}

// Unresolved lists the keys a step's prompt still lacks.
func (s *Session) Unresolved(stepID string) ([]string, error) {
	st, err := s.stepState(stepID)
	if err != nil {
		return nil, err
	}

	return template.Unresolved(st.step.Prompt, template.ResolverLookup(s.engine, s.stepContext(st))), nil
}

// Resolve resolves key as seen from a step, or from workflow scope when
// stepID is empty.
func (s *Session) Resolve(stepID, key string) (resolver.Result, error) {
	if stepID == "" {
		return s.engine.Resolve(key, resolver.Context{WorkflowMap: s.workflowMap, AllowProfile: s.profileEnabled}), nil
	}

	st, err := s.stepState(stepID)
	if err != nil {
		return resolver.Result{}, err
	}

	return s.engine.Resolve(key, s.stepContext(st)), nil
}

// Control returns the rendered control for key in a step, or in the
// workflow section when stepID is empty.
func (s *Session) Control(stepID, key string) (*control.Control, bool) {
	if stepID == "" {
		if s.workflowSection == nil {
			return nil, false
		}

		return s.workflowSection.Control(key)
	}

	st, err := s.stepState(stepID)
	if err != nil || st.container == nil {
		return nil, false
	}

	return st.container.Control(key)
}

// Counts recomputes the aggregate completion.
func (s *Session) Counts() status.Counts {
	return s.reporter.Recompute()
}

func (s *Session) Store() *store.Store {
	return s.store
}

func (s *Session) Presets() *presets.Manager {
	return s.presets
}

func (s *Session) Autosaver() *draft.Autosaver {
	return s.autosaver
}

func (s *Session) Indicator() *status.Indicator {
	return s.indicator
}

func (s *Session) Namespace() persistence.Namespace {
	return s.namespace
}

// Teardown flushes pending edits to the draft and releases every observer.
// The session must not be used afterwards.
func (s *Session) Teardown(ctx context.Context) error {
	err := s.autosaver.SaveNow(ctx)
	s.autosaver.Stop()

	for _, c := range s.containers() {
		c.Teardown()
	}

	for _, st := range s.steps {
		s.reporter.RemoveSection(st.step.ID)
	}

	s.store.Teardown()

	if err != nil {
		return fmt.Errorf("failed to flush draft: %w", err)
	}

	return nil
}
