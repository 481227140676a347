package control

import "sync"

// Container is the section controls are rendered into.
type Container struct {
	Root *Element

	mu       sync.Mutex
	controls []*Control
}

// NewContainer creates an empty section identified by id.
func NewContainer(id string) *Container {
	return &Container{Root: NewElement("section").SetAttr("id", id)}
}

func (c *Container) add(ctrl *Control) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.controls = append(c.controls, ctrl)
}

// Controls returns the rendered controls in render order.
func (c *Container) Controls() []*Control {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Control, len(c.controls))
	copy(out, c.controls)

	return out
}

// Control returns the first control rendered for key.
func (c *Container) Control(key string) (*Control, bool) {
	for _, ctrl := range c.Controls() {
		if ctrl.Key() == key {
			return ctrl, true
		}
	}

	return nil, false
}

// Refresh re-resolves every control without writing to the store.
func (c *Container) Refresh() {
	c.RefreshExcept(nil)
}

// RefreshExcept refreshes every control but src, the one being edited.
func (c *Container) RefreshExcept(src *Control) {
	for _, ctrl := range c.Controls() {
		if ctrl != src {
			ctrl.Refresh()
		}
	}
}

// Teardown detaches every control from the store.
func (c *Container) Teardown() {
	for _, ctrl := range c.Controls() {
		ctrl.Unmount()
	}
}
