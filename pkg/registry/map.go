package registry

import "github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"

// Map is an ordered set of variable definitions keyed by normalized key.
// A nil *Map behaves as an empty map.
type Map struct {
	scope models.Scope
	order []string
	defs  map[string]*models.VariableDefinition
}

// NewMap returns an empty map for scope.
func NewMap(scope models.Scope) *Map {
	return &Map{
		scope: scope,
		defs:  make(map[string]*models.VariableDefinition),
	}
}

// Scope returns the scope the map was built for.
func (m *Map) Scope() models.Scope {
	if m == nil {
		return ""
	}

	return m.scope
}

// Get returns the definition for key.
func (m *Map) Get(key string) (*models.VariableDefinition, bool) {
	if m == nil {
		return nil, false
	}

	def, ok := m.defs[key]

	return def, ok
}

// Has reports whether key is defined.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)

	return ok
}

// Keys returns the keys in first-declaration order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}

	out := make([]string, len(m.order))
	copy(out, m.order)

	return out
}

// Len returns the number of definitions.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.order)
}

// put stores def, replacing an earlier definition with the same key in place.
func (m *Map) put(def *models.VariableDefinition) {
	if _, exists := m.defs[def.Key]; !exists {
		m.order = append(m.order, def.Key)
	}

	m.defs[def.Key] = def
}
