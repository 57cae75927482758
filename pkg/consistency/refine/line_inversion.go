package refine

import (
	"fmt"

	"github.com/leapstack-labs/sketchlink/pkg/consistency"
)

// LineInversion merges an unexpected line A->B with a missing line B->A
// into a single inverted-line finding.
type LineInversion struct{}

func (LineInversion) Name() string { return "line-inversion" }

func (LineInversion) Refine(findings []consistency.Inconsistency) []consistency.Inconsistency {
	replacements := make(map[int]consistency.Inconsistency)
	consumed := make(map[int]bool)

	for i, unexpected := range findings {
		if unexpected.Kind != consistency.KindUnexpectedLine || unexpected.Line == nil || consumed[i] {
			continue
		}
		for j, missing := range findings {
			if missing.Kind != consistency.KindMissingLine || missing.Line == nil || consumed[j] {
				continue
			}
			if unexpected.Line.FromBox != missing.Line.ToBox || unexpected.Line.ToBox != missing.Line.FromBox {
				continue
			}
			first, second := i, j
			if j < i {
				first, second = j, i
			}
			reason := fmt.Sprintf("line between %q and %q is drawn in the wrong direction", unexpected.Line.FromBox, unexpected.Line.ToBox)
			merged := merge(consistency.KindInvertedLine, reason, findings[first], findings[second])
			merged.BoxID = unexpected.BoxID
			merged.EntityID = unexpected.EntityID
			merged.Line = unexpected.Line
			replacements[first] = merged
			consumed[first] = true
			consumed[second] = true
			break
		}
	}
	return replaceAt(findings, replacements, consumed)
}
