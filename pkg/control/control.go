// Package control renders variable definitions as headless form controls
// bound to the form store: one interactive element per variable, with
// validation state, fill status and a tier badge kept current on every event.
package control

import (
	"strings"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/resolver"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/store"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/validation"
)

const (
	// CheckedValue is the stored value of a checked boolean. Unchecked is "".
	CheckedValue = models.CheckedValue

	// BadgeUnresolved is shown when no tier supplies a real entry.
	BadgeUnresolved = "unresolved"
)

// Deps are the session services a control reads and writes through.
type Deps struct {
	Store  *store.Store
	Engine *resolver.Engine
}

// ChangeFunc is called after a control processed an edit.
type ChangeFunc func(*Control)

// Control is one rendered variable. Its methods model UI events and follow
// the single-threaded event model: they must not be called concurrently.
type Control struct {
	key      string
	scope    models.Scope
	def      *models.VariableDefinition
	ctx      resolver.Context
	ref      store.Ref
	deps     Deps
	onChange ChangeFunc

	wrapper *Element
	input   *Element
	badge   *Element
	message *Element

	value   string
	touched bool
	state   models.ValidationState
	msg     string
	result  resolver.Result

	writing     bool
	unsubscribe func()
}

// Render builds the control for key into container and binds it to the
// store. A nil def renders a plain optional text field.
func Render(container *Container, scope models.Scope, key string, def *models.VariableDefinition, ctx resolver.Context, deps Deps, onChange ChangeFunc) *Control {
	if def == nil {
		def = &models.VariableDefinition{Key: key, Type: models.TypeText}
	}

	ref := store.WorkflowRef(key)
	if scope == models.ScopeStep {
		ref = store.StepRef(ctx.StepID, key)
	}

	c := &Control{
		key:      key,
		scope:    scope,
		def:      def,
		ctx:      ctx,
		ref:      ref,
		deps:     deps,
		onChange: onChange,
	}

	c.result = deps.Engine.Resolve(key, ctx)
	c.value = c.shown()

	c.build()
	c.validate(models.TriggerRender)
	c.paint()

	c.unsubscribe = deps.Store.Subscribe(ref, c.onStoreChange)

	container.Root.Append(c.wrapper)
	container.add(c)

	return c
}

func (c *Control) inputType() models.VariableType {
	t := models.ParseVariableType(string(c.def.Type))
	if t == models.TypeSelect && len(c.def.Options) == 0 {
		return models.TypeText
	}

	return t
}

func (c *Control) build() {
	id := "pf-" + string(c.scope) + "-" + c.key
	if c.scope == models.ScopeStep {
		id = "pf-" + string(c.scope) + "-" + c.ctx.StepID + "-" + c.key
	}

	c.wrapper = NewElement("div").
		SetAttr("class", "pf-var").
		SetAttr("data-key", c.key).
		SetAttr("data-scope", string(c.scope))

	label := NewElement("label").SetAttr("for", id).SetText(c.def.DisplayLabel())
	if c.def.Required {
		label.Append(NewElement("span").SetAttr("class", "pf-required").SetText("*"))
	}

	c.input = c.buildInput().
		SetAttr("id", id).
		SetAttr("name", c.ref.String()).
		SetAttr("data-key", c.key)

	if c.def.Required {
		c.input.SetAttr("required", "")
	}

	if c.def.Placeholder != "" && c.inputType() != models.TypeBoolean && c.inputType() != models.TypeSelect {
		c.input.SetAttr("placeholder", c.def.Placeholder)
	}

	c.badge = NewElement("span").SetAttr("class", "pf-var-badge")
	c.message = NewElement("div").SetAttr("class", "pf-var-message").SetAttr("role", "alert")

	c.wrapper.Append(label, c.input)

	if c.def.Hint != "" {
		c.wrapper.Append(NewElement("small").SetAttr("class", "pf-var-hint").SetText(c.def.Hint))
	}

	c.wrapper.Append(c.badge, c.message)
}

func (c *Control) buildInput() *Element {
	switch t := c.inputType(); t {
	case models.TypeTextarea:
		return NewElement("textarea").SetAttr("rows", "3")
	case models.TypeSelect:
		sel := NewElement("select")
		sel.Append(NewElement("option").SetAttr("value", "").SetText("Select..."))

		for _, o := range c.def.Options {
			label := o.Label
			if label == "" {
				label = o.Value
			}

			sel.Append(NewElement("option").SetAttr("value", o.Value).SetText(label))
		}

		return sel
	case models.TypeBoolean:
		return NewElement("input").SetAttr("type", "checkbox").SetAttr("value", CheckedValue)
	case models.TypeNumber, models.TypeEmail, models.TypeURL:
		return NewElement("input").SetAttr("type", string(t))
	default:
		return NewElement("input").SetAttr("type", "text")
	}
}

// Input handles a keystroke: the whole new value of a text-like control.
// Typing a non-empty value counts as interaction.
func (c *Control) Input(value string) {
	if strings.TrimSpace(value) != "" {
		c.touched = true
	}

	c.edit(value, models.TriggerInput)
}

// Change handles a committed edit, the event selects and checkboxes emit.
func (c *Control) Change(value string) {
	c.touched = true
	c.edit(value, models.TriggerChange)
}

// Toggle handles a checkbox change.
func (c *Control) Toggle(checked bool) {
	if checked {
		c.Change(CheckedValue)

		return
	}

	c.Change("")
}

// Blur marks the control touched and re-validates without writing.
func (c *Control) Blur() {
	c.touched = true
	c.validate(models.TriggerBlur)
	c.paint()
}

func (c *Control) edit(value string, trigger models.Trigger) {
	if c.inputType() == models.TypeBoolean {
		value = checkedOrEmpty(value)
	}

	c.value = value
	c.write(value)
	c.result = c.deps.Engine.Resolve(c.key, c.ctx)
	c.validate(trigger)
	c.paint()

	if c.onChange != nil {
		c.onChange(c)
	}
}

func (c *Control) write(value string) {
	c.writing = true
	defer func() { c.writing = false }()

	if value == "" {
		c.deps.Store.Delete(c.ref)

		return
	}

	c.deps.Store.Set(c.ref, value)
}

// onStoreChange keeps the control in sync with writes made elsewhere, such
// as a sibling bound to the same cell or a preset load.
func (c *Control) onStoreChange(store.Change) {
	if c.writing {
		return
	}

	c.result = c.deps.Engine.Resolve(c.key, c.ctx)
	c.value = c.shown()

	c.validate(models.TriggerRender)
	c.paint()

	if c.onChange != nil {
		c.onChange(c)
	}
}

// Refresh re-resolves the control after a value in another tier changed.
// While the control's own cell is empty it shows the inherited value again;
// a value of its own is left alone.
func (c *Control) Refresh() {
	c.result = c.deps.Engine.Resolve(c.key, c.ctx)

	if _, own := c.deps.Store.Get(c.ref); !own {
		c.value = c.shown()
		c.validate(models.TriggerRender)
	}

	c.paint()
}

// shown is the value the control displays for the current resolution.
func (c *Control) shown() string {
	if !c.result.Usable() {
		return ""
	}

	if c.inputType() == models.TypeBoolean {
		return checkedOrEmpty(c.result.Value)
	}

	return c.result.Value
}

func checkedOrEmpty(value string) string {
	if models.IsChecked(value) {
		return CheckedValue
	}

	return ""
}

func (c *Control) validate(trigger models.Trigger) {
	def := *c.def
	def.Type = c.inputType()

	c.state, c.msg = validation.Evaluate(&def, c.value, c.touched, trigger)
}

func (c *Control) paint() {
	switch c.inputType() {
	case models.TypeTextarea:
		c.input.SetText(c.value)
	case models.TypeBoolean:
		if c.value == CheckedValue {
			c.input.SetAttr("checked", "")
		} else {
			c.input.RemoveAttr("checked")
		}
	case models.TypeSelect:
		for _, opt := range c.input.Children {
			if opt.Attr("value") == c.value {
				opt.SetAttr("selected", "")
			} else {
				opt.RemoveAttr("selected")
			}
		}
	default:
		c.input.SetAttr("value", c.value)
	}

	filled := c.Filled()
	c.wrapper.ToggleClass("is-filled", filled)
	c.wrapper.ToggleClass("is-empty", !filled)

	for _, s := range []models.ValidationState{models.ValidationPristine, models.ValidationValid, models.ValidationInvalid} {
		c.wrapper.ToggleClass("is-"+string(s), c.state == s)
	}

	if c.state == models.ValidationInvalid {
		c.input.SetAttr("aria-invalid", "true")
	} else {
		c.input.RemoveAttr("aria-invalid")
	}

	c.message.SetText(c.msg)

	badge := c.Badge()
	c.badge.SetText(badge)
	c.badge.SetAttr("data-tier", badge)
}

func (c *Control) Key() string {
	return c.key
}

func (c *Control) Scope() models.Scope {
	return c.scope
}

// Ref is the store cell the control writes to.
func (c *Control) Ref() store.Ref {
	return c.ref
}

func (c *Control) Definition() *models.VariableDefinition {
	return c.def
}

// Element is the control's wrapper element.
func (c *Control) Element() *Element {
	return c.wrapper
}

// Field is the interactive element inside the wrapper.
func (c *Control) Field() *Element {
	return c.input
}

// Value is the value currently shown in the control.
func (c *Control) Value() string {
	return c.value
}

// Resolution is the latest resolution result for the control's key.
func (c *Control) Resolution() resolver.Result {
	return c.result
}

// Filled reports whether the key holds a real entry in any tier. A boolean
// is filled only when that entry is checked.
func (c *Control) Filled() bool {
	if c.inputType() == models.TypeBoolean {
		return c.result.Resolved && models.IsChecked(c.result.Value)
	}

	return c.result.Resolved
}

// Valid reports whether the shown value passes validation.
func (c *Control) Valid() bool {
	return c.state != models.ValidationInvalid
}

func (c *Control) State() models.ValidationState {
	return c.state
}

// Message is the validation message, empty unless invalid.
func (c *Control) Message() string {
	return c.msg
}

func (c *Control) Touched() bool {
	return c.touched
}

// Badge returns the tier badge text.
func (c *Control) Badge() string {
	if !c.result.Resolved {
		return BadgeUnresolved
	}

	return strings.ToLower(string(c.result.Tier))
}

// Unmount stops syncing with the store.
func (c *Control) Unmount() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}
