package core

import "fmt"

// ModelType identifies the kind of formal model a diagram is compared to.
type ModelType string

// Model type constants.
const (
	ModelTypeArchitecture ModelType = "architecture"
	ModelTypeCode         ModelType = "code"
)

// ModelTypes lists every supported model type in evaluation order.
func ModelTypes() []ModelType {
	return []ModelType{ModelTypeArchitecture, ModelTypeCode}
}

// ParseModelType converts a string to a ModelType.
func ParseModelType(s string) (ModelType, error) {
	switch ModelType(s) {
	case ModelTypeArchitecture, ModelTypeCode:
		return ModelType(s), nil
	default:
		return "", NewUnsupportedTypeError("model type", s)
	}
}

// Model is an already-extracted architecture or code model.
// Entities keep their load order; all lookups are by entity ID.
type Model struct {
	Type     ModelType
	Entities []Entity

	index    map[string]Entity
	parents  map[string]string
	children map[string][]string
}

// NewModel creates a model of the given type.
// Every entity must match the model type; anything else is a programmer error.
func NewModel(t ModelType, entities []Entity) *Model {
	for _, e := range entities {
		checkEntityType(t, e)
	}
	m := &Model{Type: t, Entities: entities}
	m.reindex()
	return m
}

func checkEntityType(t ModelType, e Entity) {
	switch e.(type) {
	case *ArchitectureItem:
		if t == ModelTypeArchitecture {
			return
		}
	case *CodeItem:
		if t == ModelTypeCode {
			return
		}
	}
	panic(NewUnsupportedTypeError("entity", fmt.Sprintf("%T in %s model", e, t)))
}

func (m *Model) reindex() {
	m.index = make(map[string]Entity, len(m.Entities))
	m.parents = make(map[string]string)
	m.children = make(map[string][]string)
	for _, e := range m.Entities {
		m.index[e.EntityID()] = e
	}
	for _, e := range m.Entities {
		for _, r := range e.EntityRelations() {
			if r.Kind != RelationContains {
				continue
			}
			m.parents[r.Target] = e.EntityID()
			m.children[e.EntityID()] = append(m.children[e.EntityID()], r.Target)
		}
	}
}

// Entity returns the entity with the given ID.
func (m *Model) Entity(id string) (Entity, bool) {
	if m.index == nil {
		m.reindex()
	}
	e, ok := m.index[id]
	return e, ok
}

// Parent returns the ID of the entity containing id, if any.
func (m *Model) Parent(id string) (string, bool) {
	if m.index == nil {
		m.reindex()
	}
	p, ok := m.parents[id]
	return p, ok
}

// Children returns the IDs of the entities directly contained in id.
func (m *Model) Children(id string) []string {
	if m.index == nil {
		m.reindex()
	}
	return m.children[id]
}

// Contains reports whether inner is contained, at any depth, in outer.
func (m *Model) Contains(outerID, innerID string) bool {
	seen := make(map[string]bool)
	cur := innerID
	for !seen[cur] {
		seen[cur] = true
		p, ok := m.Parent(cur)
		if !ok {
			return false
		}
		if p == outerID {
			return true
		}
		cur = p
	}
	return false
}

// DependsOn reports whether from has a dependency relation to to.
func (m *Model) DependsOn(from, to string) bool {
	e, ok := m.Entity(from)
	if !ok {
		return false
	}
	for _, r := range e.EntityRelations() {
		if r.Kind == RelationDependsOn && r.Target == to {
			return true
		}
	}
	return false
}

// Dependencies returns the IDs that from depends on, in declaration order.
func (m *Model) Dependencies(from string) []string {
	e, ok := m.Entity(from)
	if !ok {
		return nil
	}
	var deps []string
	for _, r := range e.EntityRelations() {
		if r.Kind == RelationDependsOn {
			deps = append(deps, r.Target)
		}
	}
	return deps
}
