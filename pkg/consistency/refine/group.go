package refine

import (
	"fmt"

	"github.com/leapstack-labs/sketchlink/pkg/consistency"
)

// Group folds every set of two or more findings that share a box into one
// group finding. Lone findings and findings without a box pass through.
type Group struct{}

func (Group) Name() string { return "group" }

func (Group) Refine(findings []consistency.Inconsistency) []consistency.Inconsistency {
	byBox := make(map[string][]int)
	for i, f := range findings {
		if f.BoxID == "" {
			continue
		}
		byBox[f.BoxID] = append(byBox[f.BoxID], i)
	}

	replacements := make(map[int]consistency.Inconsistency)
	consumed := make(map[int]bool)
	for boxID, idx := range byBox {
		if len(idx) < 2 {
			continue
		}
		members := make([]consistency.Inconsistency, len(idx))
		for k, i := range idx {
			members[k] = findings[i]
			consumed[i] = true
		}
		g := merge(consistency.KindGroup, fmt.Sprintf("%d inconsistencies concern box %q", len(members), boxID), members...)
		g.BoxID = boxID
		g.Line = nil
		replacements[idx[0]] = g
	}
	return replaceAt(findings, replacements, consumed)
}
