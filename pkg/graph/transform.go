package graph

import (
	"fmt"

	"github.com/leapstack-labs/sketchlink/pkg/core"
)

// FromDiagram builds the box graph of d: one vertex per box in diagram order,
// a containment edge parent -> child and a dependency edge per drawn line.
func FromDiagram(d *core.Diagram) (*Graph[*core.Box], error) {
	g := New[*core.Box]()
	byID := make(map[string]*Vertex[*core.Box], len(d.Boxes))

	for _, b := range d.Boxes {
		if _, dup := byID[b.ID]; dup {
			return nil, core.NewMalformedInputError("diagram", "duplicate box id %q", b.ID)
		}
		byID[b.ID] = g.AddVertex(b)
	}

	for _, b := range d.Boxes {
		if !b.HasParent() {
			continue
		}
		parent, ok := byID[b.ParentID]
		if !ok {
			return nil, core.NewMalformedInputError("diagram", "box %q has unknown parent %q", b.ID, b.ParentID)
		}
		if err := g.AddEdge(parent, byID[b.ID], LabelContainment); err != nil {
			return nil, fmt.Errorf("failed to add containment edge: %w", err)
		}
	}

	for _, c := range d.Connections {
		from, ok := byID[c.From]
		if !ok {
			return nil, core.NewMalformedInputError("diagram", "line starts at unknown box %q", c.From)
		}
		to, ok := byID[c.To]
		if !ok {
			return nil, core.NewMalformedInputError("diagram", "line ends at unknown box %q", c.To)
		}
		if err := g.AddEdge(from, to, LabelDependency); err != nil {
			return nil, fmt.Errorf("failed to add line edge: %w", err)
		}
	}

	return g, nil
}

// FromModel builds the entity graph of m: one vertex per entity in model
// order and one edge per relation, labeled by the relation kind.
func FromModel(m *core.Model) (*Graph[core.Entity], error) {
	g := New[core.Entity]()
	byID := make(map[string]*Vertex[core.Entity], len(m.Entities))

	for _, e := range m.Entities {
		if _, dup := byID[e.EntityID()]; dup {
			return nil, core.NewMalformedInputError("model", "duplicate entity id %q", e.EntityID())
		}
		byID[e.EntityID()] = g.AddVertex(e)
	}

	for _, e := range m.Entities {
		for _, r := range e.EntityRelations() {
			to, ok := byID[r.Target]
			if !ok {
				return nil, core.NewMalformedInputError("model", "entity %q relates to unknown entity %q", e.EntityID(), r.Target)
			}
			if err := g.AddEdge(byID[e.EntityID()], to, LabelFor(r.Kind)); err != nil {
				return nil, fmt.Errorf("failed to add relation edge: %w", err)
			}
		}
	}

	return g, nil
}

// LabelFor maps a model relation kind to its edge label.
func LabelFor(kind core.RelationKind) Label {
	switch kind {
	case core.RelationContains:
		return LabelContainment
	case core.RelationDependsOn:
		return LabelDependency
	default:
		panic(core.NewUnsupportedTypeError("relation kind", string(kind)))
	}
}
