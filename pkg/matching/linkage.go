// Package matching turns a fuzzy similarity mapping into a one-to-one
// linkage between diagram boxes and model entities.
package matching

import (
	"errors"
	"fmt"
)

// ErrAlreadyLinked is returned when a box or an entity is linked twice.
var ErrAlreadyLinked = errors.New("already linked")

// Link is a single box <-> entity association.
type Link struct {
	BoxID    string `json:"box"`
	EntityID string `json:"entity"`
}

// Linkage is an injective bidirectional map between box IDs and entity IDs.
// Links keep their insertion order.
type Linkage struct {
	links    []Link
	byBox    map[string]string
	byEntity map[string]string
}

// NewLinkage creates an empty linkage.
func NewLinkage() *Linkage {
	return &Linkage{
		byBox:    make(map[string]string),
		byEntity: make(map[string]string),
	}
}

// Link associates boxID with entityID. It refuses the pair when either side
// is already linked.
func (l *Linkage) Link(boxID, entityID string) error {
	if e, ok := l.byBox[boxID]; ok {
		return fmt.Errorf("box %q to entity %q: %w (entity %q)", boxID, entityID, ErrAlreadyLinked, e)
	}
	if b, ok := l.byEntity[entityID]; ok {
		return fmt.Errorf("entity %q to box %q: %w (box %q)", entityID, boxID, ErrAlreadyLinked, b)
	}
	l.byBox[boxID] = entityID
	l.byEntity[entityID] = boxID
	l.links = append(l.links, Link{BoxID: boxID, EntityID: entityID})
	return nil
}

// EntityFor returns the entity linked to boxID.
func (l *Linkage) EntityFor(boxID string) (string, bool) {
	e, ok := l.byBox[boxID]
	return e, ok
}

// BoxFor returns the box linked to entityID.
func (l *Linkage) BoxFor(entityID string) (string, bool) {
	b, ok := l.byEntity[entityID]
	return b, ok
}

// HasBox reports whether boxID is linked.
func (l *Linkage) HasBox(boxID string) bool {
	_, ok := l.byBox[boxID]
	return ok
}

// HasEntity reports whether entityID is linked.
func (l *Linkage) HasEntity(entityID string) bool {
	_, ok := l.byEntity[entityID]
	return ok
}

// Len returns the number of links.
func (l *Linkage) Len() int {
	return len(l.links)
}

// Links returns the links in insertion order.
func (l *Linkage) Links() []Link {
	out := make([]Link, len(l.links))
	copy(out, l.links)
	return out
}
