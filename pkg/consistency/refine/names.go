package refine

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sketchlink/pkg/consistency"
)

// NameExtension reclassifies a name mismatch where one name extends the
// other, like "Logic" and "LogicComponent".
type NameExtension struct {
	Names Names
}

func (NameExtension) Name() string { return "name-extension" }

func (r NameExtension) Refine(findings []consistency.Inconsistency) []consistency.Inconsistency {
	return reclassify(findings, r.Names, consistency.KindNameExtension, func(box, entity string) (string, bool) {
		b, e := fold(box), fold(entity)
		if b == e || b == "" || e == "" {
			return "", false
		}
		if !extends(b, e) && !extends(e, b) {
			return "", false
		}
		return fmt.Sprintf("%q and %q differ only by an extension", box, entity), true
	})
}

func extends(long, short string) bool {
	return len(long) > len(short) && (strings.HasPrefix(long, short) || strings.HasSuffix(long, short))
}

// Casing reclassifies a name mismatch where the names differ only in case.
type Casing struct {
	Names Names
}

func (Casing) Name() string { return "casing" }

func (r Casing) Refine(findings []consistency.Inconsistency) []consistency.Inconsistency {
	return reclassify(findings, r.Names, consistency.KindCasing, func(box, entity string) (string, bool) {
		if box == entity || fold(box) != fold(entity) {
			return "", false
		}
		return fmt.Sprintf("%q and %q differ only in case", box, entity), true
	})
}

// reclassify wraps every name mismatch accepted by match into a finding of kind.
func reclassify(findings []consistency.Inconsistency, names Names, kind consistency.Kind, match func(box, entity string) (string, bool)) []consistency.Inconsistency {
	out := make([]consistency.Inconsistency, len(findings))
	for i, f := range findings {
		out[i] = f
		if f.Kind != consistency.KindNameMismatch {
			continue
		}
		box, entity, ok := names.pair(f)
		if !ok {
			continue
		}
		if reason, ok := match(box, entity); ok {
			out[i] = merge(kind, reason, f)
		}
	}
	return out
}

// Swap merges two name mismatches whose names match after exchanging their
// entities: the boxes were linked the wrong way round.
type Swap struct {
	Names Names
}

func (Swap) Name() string { return "swap" }

func (r Swap) Refine(findings []consistency.Inconsistency) []consistency.Inconsistency {
	replacements := make(map[int]consistency.Inconsistency)
	consumed := make(map[int]bool)

	for i, a := range findings {
		if a.Kind != consistency.KindNameMismatch || consumed[i] {
			continue
		}
		boxA, entityA, ok := r.Names.pair(a)
		if !ok {
			continue
		}
		for j := i + 1; j < len(findings); j++ {
			b := findings[j]
			if b.Kind != consistency.KindNameMismatch || consumed[j] {
				continue
			}
			boxB, entityB, ok := r.Names.pair(b)
			if !ok || boxA != entityB || boxB != entityA {
				continue
			}
			reason := fmt.Sprintf("boxes %q and %q carry each other's names", a.BoxID, b.BoxID)
			replacements[i] = merge(consistency.KindSwap, reason, a, b)
			consumed[i] = true
			consumed[j] = true
			break
		}
	}
	return replaceAt(findings, replacements, consumed)
}
