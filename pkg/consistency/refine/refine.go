// Package refine merges raw inconsistencies into higher-level findings.
//
// Refiners run in a fixed order (LineInversion, NameExtension, Casing,
// Swap) followed by grouping by box. Every refined finding keeps the
// findings it replaces as members, so no base finding is ever lost, and a
// replacement takes the position of its first member.
package refine

import (
	"strings"

	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	"github.com/leapstack-labs/sketchlink/pkg/core"
	"golang.org/x/text/cases"
)

// Refiner rewrites a list of findings.
type Refiner interface {
	Name() string
	Refine(findings []consistency.Inconsistency) []consistency.Inconsistency
}

// Names resolves the display names of boxes and entities.
type Names struct {
	Box    func(id string) (string, bool)
	Entity func(id string) (string, bool)
}

// NamesFor resolves names from a diagram and a model.
func NamesFor(d *core.Diagram, m *core.Model) Names {
	return Names{
		Box: func(id string) (string, bool) {
			b, ok := d.Box(id)
			if !ok {
				return "", false
			}
			return strings.TrimSpace(b.Text), true
		},
		Entity: func(id string) (string, bool) {
			e, ok := m.Entity(id)
			if !ok {
				return "", false
			}
			return strings.TrimSpace(e.EntityName()), true
		},
	}
}

// pair returns the box and entity names of a finding.
func (n Names) pair(f consistency.Inconsistency) (string, string, bool) {
	if n.Box == nil || n.Entity == nil {
		return "", "", false
	}
	b, ok := n.Box(f.BoxID)
	if !ok {
		return "", "", false
	}
	e, ok := n.Entity(f.EntityID)
	if !ok {
		return "", "", false
	}
	return b, e, true
}

// Sequence returns the refiners in evaluation order, without grouping.
func Sequence(names Names) []Refiner {
	return []Refiner{
		LineInversion{},
		NameExtension{Names: names},
		Casing{Names: names},
		Swap{Names: names},
	}
}

// Apply runs refiners in order.
func Apply(findings []consistency.Inconsistency, refiners ...Refiner) []consistency.Inconsistency {
	for _, r := range refiners {
		findings = r.Refine(findings)
	}
	return findings
}

// Refine runs the full sequence followed by grouping.
func Refine(findings []consistency.Inconsistency, names Names) []consistency.Inconsistency {
	return Apply(findings, append(Sequence(names), Group{})...)
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// merge builds a refined finding over members. Shared rule IDs and the most
// severe member severity carry over.
func merge(kind consistency.Kind, reason string, members ...consistency.Inconsistency) consistency.Inconsistency {
	first := members[0]
	out := consistency.Inconsistency{
		Kind:     kind,
		RuleID:   first.RuleID,
		Severity: first.Severity,
		Reason:   reason,
		BoxID:    first.BoxID,
		EntityID: first.EntityID,
		Line:     first.Line,
		Members:  members,
	}
	for _, m := range members[1:] {
		if m.RuleID != out.RuleID {
			out.RuleID = ""
		}
		if m.Severity < out.Severity {
			out.Severity = m.Severity
		}
		if m.EntityID != out.EntityID {
			out.EntityID = ""
		}
	}
	return out
}

// replaceAt rewrites findings: every index in consumed is dropped except
// the key of replacements, which is swapped for its replacement.
func replaceAt(findings []consistency.Inconsistency, replacements map[int]consistency.Inconsistency, consumed map[int]bool) []consistency.Inconsistency {
	if len(consumed) == 0 {
		return findings
	}
	out := make([]consistency.Inconsistency, 0, len(findings)-len(consumed)+len(replacements))
	for i, f := range findings {
		if r, ok := replacements[i]; ok {
			out = append(out, r)
			continue
		}
		if consumed[i] {
			continue
		}
		out = append(out, f)
	}
	return out
}
