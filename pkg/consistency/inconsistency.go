// Package consistency evaluates consistency rules over a diagram, a model
// and the linkage between them.
//
// Rules are registered from init() functions (see the rules subpackage) and
// run by the Engine in a three-phase sweep: linked pairs first, then the
// boxes no link consumed, then the entities no link consumed.
package consistency

import (
	"encoding/json"

	"github.com/leapstack-labs/sketchlink/pkg/core"
)

// Kind classifies an inconsistency.
type Kind string

// Base kinds, produced by rules.
const (
	KindNameMismatch        Kind = "name-mismatch"
	KindUnlinkedBox         Kind = "unlinked-box"
	KindUnrepresentedEntity Kind = "unrepresented-entity"
	KindUnexpectedLine      Kind = "unexpected-line"
	KindMissingLine         Kind = "missing-line"
	KindWrongParent         Kind = "wrong-parent"
	KindMissingSubpackage   Kind = "missing-subpackage"
)

// Refined kinds, produced by refinement. They wrap the findings they replace.
const (
	KindInvertedLine  Kind = "inverted-line"
	KindNameExtension Kind = "name-extension"
	KindCasing        Kind = "casing"
	KindSwap          Kind = "swap"
	KindGroup         Kind = "group"
)

// IsRefined reports whether k is produced by refinement.
func (k Kind) IsRefined() bool {
	switch k {
	case KindInvertedLine, KindNameExtension, KindCasing, KindSwap, KindGroup:
		return true
	default:
		return false
	}
}

// Line identifies a drawn or expected line by its endpoints on both sides.
type Line struct {
	FromBox    string `json:"from_box"`
	ToBox      string `json:"to_box"`
	FromEntity string `json:"from_entity"`
	ToEntity   string `json:"to_entity"`
}

// Inconsistency is a single finding. BoxID or EntityID is empty when the
// finding concerns an unmatched side.
type Inconsistency struct {
	Kind     Kind
	RuleID   string
	Severity core.Severity
	Reason   string
	BoxID    string
	EntityID string
	Line     *Line
	// Members holds the findings a refined inconsistency replaces.
	Members []Inconsistency
}

// Bases returns the base findings of i: i itself when it is a base kind,
// otherwise the bases of its members, in order.
func (i Inconsistency) Bases() []Inconsistency {
	if len(i.Members) == 0 {
		return []Inconsistency{i}
	}
	var bases []Inconsistency
	for _, m := range i.Members {
		bases = append(bases, m.Bases()...)
	}
	return bases
}

// Bases flattens findings into their base findings.
func Bases(findings []Inconsistency) []Inconsistency {
	var bases []Inconsistency
	for _, f := range findings {
		bases = append(bases, f.Bases()...)
	}
	return bases
}

type inconsistencyJSON struct {
	Kind     Kind            `json:"kind"`
	RuleID   string          `json:"rule,omitempty"`
	Severity core.Severity   `json:"severity"`
	Reason   string          `json:"reason"`
	BoxID    *string         `json:"box"`
	EntityID *string         `json:"entity"`
	Line     *Line           `json:"line,omitempty"`
	Members  []Inconsistency `json:"members,omitempty"`
}

// MarshalJSON encodes absent box or entity IDs as null.
func (i Inconsistency) MarshalJSON() ([]byte, error) {
	return json.Marshal(inconsistencyJSON{
		Kind:     i.Kind,
		RuleID:   i.RuleID,
		Severity: i.Severity,
		Reason:   i.Reason,
		BoxID:    optional(i.BoxID),
		EntityID: optional(i.EntityID),
		Line:     i.Line,
		Members:  i.Members,
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
