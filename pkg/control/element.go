package control

import (
	"slices"
	"strings"
)

// Element is one node of the headless render tree.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Text     string
	Children []*Element
}

func NewElement(tag string) *Element {
	return &Element{Tag: tag, Attrs: map[string]string{}}
}

// SetAttr sets an attribute and returns e for chaining.
func (e *Element) SetAttr(name, value string) *Element {
	e.Attrs[name] = value

	return e
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(name string) {
	delete(e.Attrs, name)
}

// Attr returns an attribute value or "".
func (e *Element) Attr(name string) string {
	return e.Attrs[name]
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attrs[name]

	return ok
}

// SetText replaces the text content and returns e for chaining.
func (e *Element) SetText(text string) *Element {
	e.Text = text

	return e
}

// Append adds children in order.
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)

	return e
}

// Classes returns the class list.
func (e *Element) Classes() []string {
	return strings.Fields(e.Attrs["class"])
}

func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.Classes(), class)
}

// ToggleClass adds class when on is true and removes it otherwise.
func (e *Element) ToggleClass(class string, on bool) {
	classes := slices.DeleteFunc(e.Classes(), func(c string) bool { return c == class })
	if on {
		classes = append(classes, class)
	}

	if len(classes) == 0 {
		delete(e.Attrs, "class")

		return
	}

	e.Attrs["class"] = strings.Join(classes, " ")
}

// Find returns the first element in e's subtree, e included, for which
// match is true.
func (e *Element) Find(match func(*Element) bool) *Element {
	if match(e) {
		return e
	}

	for _, child := range e.Children {
		if found := child.Find(match); found != nil {
			return found
		}
	}

	return nil
}

// FindAll returns every matching element in document order.
func (e *Element) FindAll(match func(*Element) bool) []*Element {
	var out []*Element

	if match(e) {
		out = append(out, e)
	}

	for _, child := range e.Children {
		out = append(out, child.FindAll(match)...)
	}

	return out
}

// ByClass matches elements carrying class.
func ByClass(class string) func(*Element) bool {
	return func(e *Element) bool { return e.HasClass(class) }
}

// Interactive matches input, textarea and select elements.
func Interactive(e *Element) bool {
	switch e.Tag {
	case "input", "textarea", "select":
		return true
	default:
		return false
	}
}
