package core

// Box is a diagram element with a text label and an optional parent box.
type Box struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	ParentID string `json:"parent,omitempty"`
}

// HasParent reports whether the box is nested inside another box.
func (b *Box) HasParent() bool {
	return b.ParentID != ""
}

// Connection is a directed line drawn between two boxes.
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Diagram is a set of boxes and the lines between them.
// Boxes and connections keep the order in which they were loaded.
type Diagram struct {
	ID          string       `json:"id"`
	Boxes       []*Box       `json:"boxes"`
	Connections []Connection `json:"connections,omitempty"`

	index map[string]*Box
}

// NewDiagram creates a diagram and indexes its boxes.
func NewDiagram(id string, boxes []*Box, connections []Connection) *Diagram {
	d := &Diagram{ID: id, Boxes: boxes, Connections: connections}
	d.reindex()
	return d
}

func (d *Diagram) reindex() {
	d.index = make(map[string]*Box, len(d.Boxes))
	for _, b := range d.Boxes {
		d.index[b.ID] = b
	}
}

// Box returns the box with the given ID.
func (d *Diagram) Box(id string) (*Box, bool) {
	if d.index == nil {
		d.reindex()
	}
	b, ok := d.index[id]
	return b, ok
}

// Parent returns the parent of b, if the parent exists in the diagram.
func (d *Diagram) Parent(b *Box) (*Box, bool) {
	if b == nil || !b.HasParent() {
		return nil, false
	}
	return d.Box(b.ParentID)
}

// Children returns the boxes directly nested in the box with the given ID.
func (d *Diagram) Children(id string) []*Box {
	var children []*Box
	for _, b := range d.Boxes {
		if b.ParentID == id {
			children = append(children, b)
		}
	}
	return children
}

// Contains reports whether inner is nested, at any depth, inside outer.
func (d *Diagram) Contains(outerID, innerID string) bool {
	seen := make(map[string]bool)
	b, ok := d.Box(innerID)
	for ok && b.HasParent() && !seen[b.ID] {
		seen[b.ID] = true
		if b.ParentID == outerID {
			return true
		}
		b, ok = d.Box(b.ParentID)
	}
	return false
}

// Outgoing returns the IDs of the boxes that the given box has lines to.
func (d *Diagram) Outgoing(id string) []string {
	var targets []string
	for _, c := range d.Connections {
		if c.From == id {
			targets = append(targets, c.To)
		}
	}
	return targets
}

// Connected reports whether a line from -> to is drawn.
func (d *Diagram) Connected(from, to string) bool {
	for _, c := range d.Connections {
		if c.From == from && c.To == to {
			return true
		}
	}
	return false
}
