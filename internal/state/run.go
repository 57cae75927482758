// Package state holds the typed, in-memory state of one diagram run.
//
// A Run replaces a shared key-value store: every pipeline stage reads and
// writes named fields, and a nil field means the stage producing it has not
// run. Runs are not safe for concurrent use; independent diagrams get
// independent runs.
package state

import (
	"slices"

	"github.com/google/uuid"
	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/leapstack-labs/sketchlink/pkg/flooding"
	"github.com/leapstack-labs/sketchlink/pkg/graph"
	"github.com/leapstack-labs/sketchlink/pkg/matching"
	"github.com/leapstack-labs/sketchlink/pkg/similarity"
)

// Run is the state of one diagram checked against a set of models.
type Run struct {
	ID      uuid.UUID
	Diagram *core.Diagram
	Models  map[core.ModelType]*core.Model

	Selection *Selection
	Links     map[core.ModelType]*matching.Linkage
	Findings  map[core.ModelType]*Findings
}

// Occurrence is a candidate box -> entity match found by model selection.
type Occurrence struct {
	BoxID    string          `json:"box"`
	EntityID string          `json:"entity"`
	Role     core.EntityKind `json:"role,omitempty"`
	Score    float64         `json:"score"`
}

// Selection is the outcome of model selection and flooding.
type Selection struct {
	Occurrences map[core.ModelType][]Occurrence
	Selected    []core.ModelType
	// Similarity is the weighted word similarity built from the selected models.
	Similarity *similarity.Weighted
	Mappings   map[core.ModelType]*Mapping
}

// Mapping is the flooding result for one model type.
type Mapping struct {
	Boxes      *graph.Graph[*core.Box]
	Entities   *graph.Graph[core.Entity]
	Initial    *flooding.Mapping[*core.Box, core.Entity]
	Final      *flooding.Mapping[*core.Box, core.Entity]
	Iterations int
	Converged  bool
}

// Findings holds the raw and the refined inconsistencies of one model type.
type Findings struct {
	Raw     []consistency.Inconsistency
	Refined []consistency.Inconsistency
}

// New creates a run for d against models. Later models of the same type
// replace earlier ones.
func New(d *core.Diagram, models ...*core.Model) *Run {
	r := &Run{
		ID:      uuid.New(),
		Diagram: d,
		Models:  make(map[core.ModelType]*core.Model, len(models)),
	}
	for _, m := range models {
		r.Models[m.Type] = m
	}
	return r
}

// ModelTypes returns the loaded model types in evaluation order.
func (r *Run) ModelTypes() []core.ModelType {
	var types []core.ModelType
	for _, t := range core.ModelTypes() {
		if _, ok := r.Models[t]; ok {
			types = append(types, t)
		}
	}
	return types
}

// SelectAll marks every loaded model type as selected without running the
// selector.
func (r *Run) SelectAll() {
	sel := r.EnsureSelection()
	sel.Selected = r.ModelTypes()
}

// EnsureSelection returns the selection state, creating it when absent.
func (r *Run) EnsureSelection() *Selection {
	if r.Selection == nil {
		r.Selection = &Selection{
			Occurrences: make(map[core.ModelType][]Occurrence),
			Mappings:    make(map[core.ModelType]*Mapping),
		}
	}
	return r.Selection
}

// IsSelected reports whether model type t was selected.
func (s *Selection) IsSelected(t core.ModelType) bool {
	return s != nil && slices.Contains(s.Selected, t)
}

// SetLinks stores the linkage of model type t.
func (r *Run) SetLinks(t core.ModelType, l *matching.Linkage) {
	if r.Links == nil {
		r.Links = make(map[core.ModelType]*matching.Linkage)
	}
	r.Links[t] = l
}

// FindingsFor returns the findings of model type t, creating them when absent.
func (r *Run) FindingsFor(t core.ModelType) *Findings {
	if r.Findings == nil {
		r.Findings = make(map[core.ModelType]*Findings)
	}
	f, ok := r.Findings[t]
	if !ok {
		f = &Findings{}
		r.Findings[t] = f
	}
	return f
}

// Result returns the findings to report for t: the refined list when
// refinement ran, the raw list otherwise.
func (f *Findings) Result() []consistency.Inconsistency {
	if f == nil {
		return nil
	}
	if f.Refined != nil {
		return f.Refined
	}
	return f.Raw
}
