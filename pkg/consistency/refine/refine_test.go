package refine

import (
	"testing"

	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(boxes, entities map[string]string) Names {
	lookup := func(m map[string]string) func(string) (string, bool) {
		return func(id string) (string, bool) {
			v, ok := m[id]
			return v, ok
		}
	}
	return Names{Box: lookup(boxes), Entity: lookup(entities)}
}

func mismatch(box, entity string) consistency.Inconsistency {
	return consistency.Inconsistency{
		Kind:     consistency.KindNameMismatch,
		RuleID:   "NM01",
		Severity: core.SeverityWarning,
		BoxID:    box,
		EntityID: entity,
	}
}

func TestGroup_ThreeIntoTwo(t *testing.T) {
	f1 := consistency.Inconsistency{Kind: consistency.KindWrongParent, RuleID: "HR01", BoxID: "B1", EntityID: "e1"}
	f2 := consistency.Inconsistency{Kind: consistency.KindUnlinkedBox, RuleID: "LK01", BoxID: "B2"}
	f3 := consistency.Inconsistency{Kind: consistency.KindNameMismatch, RuleID: "NM01", BoxID: "B1", EntityID: "e1"}

	out := Group{}.Refine([]consistency.Inconsistency{f1, f2, f3})

	require.Len(t, out, 2)
	assert.Equal(t, consistency.KindGroup, out[0].Kind)
	assert.Equal(t, "B1", out[0].BoxID)
	assert.Equal(t, "e1", out[0].EntityID)
	assert.Empty(t, out[0].RuleID)
	assert.Equal(t, []consistency.Inconsistency{f1, f3}, out[0].Members)
	assert.Equal(t, f2, out[1])
}

func TestGroup_BoxlessPassThrough(t *testing.T) {
	in := []consistency.Inconsistency{
		{Kind: consistency.KindUnrepresentedEntity, EntityID: "e1"},
		{Kind: consistency.KindUnrepresentedEntity, EntityID: "e2"},
	}
	assert.Equal(t, in, Group{}.Refine(in))
}

func TestLineInversion(t *testing.T) {
	unexpected := consistency.Inconsistency{
		Kind: consistency.KindUnexpectedLine, RuleID: "CN01", Severity: core.SeverityError,
		BoxID: "a", EntityID: "ea",
		Line: &consistency.Line{FromBox: "a", ToBox: "b", FromEntity: "ea", ToEntity: "eb"},
	}
	missing := consistency.Inconsistency{
		Kind: consistency.KindMissingLine, RuleID: "CN01", Severity: core.SeverityError,
		BoxID: "b", EntityID: "eb",
		Line: &consistency.Line{FromBox: "b", ToBox: "a", FromEntity: "eb", ToEntity: "ea"},
	}
	other := consistency.Inconsistency{Kind: consistency.KindUnlinkedBox, BoxID: "c"}

	out := LineInversion{}.Refine([]consistency.Inconsistency{other, missing, unexpected})

	require.Len(t, out, 2)
	assert.Equal(t, other, out[0])
	inv := out[1]
	assert.Equal(t, consistency.KindInvertedLine, inv.Kind)
	assert.Equal(t, "CN01", inv.RuleID)
	assert.Equal(t, "a", inv.BoxID)
	assert.Equal(t, unexpected.Line, inv.Line)
	assert.ElementsMatch(t, []consistency.Inconsistency{unexpected, missing}, inv.Members)
}

func TestLineInversion_SameDirectionNotMerged(t *testing.T) {
	in := []consistency.Inconsistency{
		{Kind: consistency.KindUnexpectedLine, BoxID: "a", Line: &consistency.Line{FromBox: "a", ToBox: "b"}},
		{Kind: consistency.KindMissingLine, BoxID: "a", Line: &consistency.Line{FromBox: "a", ToBox: "c"}},
	}
	assert.Equal(t, in, LineInversion{}.Refine(in))
}

func TestNameRefiners(t *testing.T) {
	n := names(
		map[string]string{"b1": "Logic", "b2": "STORAGE", "b3": "Spaceship", "b4": "ui", "b5": "Api"},
		map[string]string{"e1": "LogicComponent", "e2": "Storage", "e3": "Persistence", "e4": "ui", "e5": "Gateway"},
	)

	tests := []struct {
		name     string
		refiner  Refiner
		in       consistency.Inconsistency
		wantKind consistency.Kind
	}{
		{name: "prefix extension", refiner: NameExtension{Names: n}, in: mismatch("b1", "e1"), wantKind: consistency.KindNameExtension},
		{name: "casing is not an extension", refiner: NameExtension{Names: n}, in: mismatch("b2", "e2"), wantKind: consistency.KindNameMismatch},
		{name: "unrelated names", refiner: NameExtension{Names: n}, in: mismatch("b3", "e3"), wantKind: consistency.KindNameMismatch},
		{name: "casing", refiner: Casing{Names: n}, in: mismatch("b2", "e2"), wantKind: consistency.KindCasing},
		{name: "casing needs different names", refiner: Casing{Names: n}, in: mismatch("b4", "e4"), wantKind: consistency.KindNameMismatch},
		{name: "unknown ids pass", refiner: Casing{Names: n}, in: mismatch("zz", "e2"), wantKind: consistency.KindNameMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.refiner.Refine([]consistency.Inconsistency{tt.in})

			require.Len(t, out, 1)
			assert.Equal(t, tt.wantKind, out[0].Kind)
			if tt.wantKind != consistency.KindNameMismatch {
				assert.Equal(t, []consistency.Inconsistency{tt.in}, out[0].Members)
				assert.Equal(t, "NM01", out[0].RuleID)
			}
		})
	}
}

func TestNameExtension_Suffix(t *testing.T) {
	n := names(map[string]string{"b": "ServiceLogic"}, map[string]string{"e": "logic"})
	out := NameExtension{Names: n}.Refine([]consistency.Inconsistency{mismatch("b", "e")})
	assert.Equal(t, consistency.KindNameExtension, out[0].Kind)
}

func TestSwap(t *testing.T) {
	n := names(
		map[string]string{"b1": "Storage", "b2": "Logic", "b3": "UI"},
		map[string]string{"e1": "Logic", "e2": "Storage", "e3": "View"},
	)
	a := mismatch("b1", "e1")
	b := mismatch("b2", "e2")
	c := mismatch("b3", "e3")

	out := Swap{Names: n}.Refine([]consistency.Inconsistency{a, c, b})

	require.Len(t, out, 2)
	assert.Equal(t, consistency.KindSwap, out[0].Kind)
	assert.Equal(t, []consistency.Inconsistency{a, b}, out[0].Members)
	assert.Equal(t, c, out[1])
}

func scenario() ([]consistency.Inconsistency, Names) {
	n := names(
		map[string]string{"a": "Logic", "b": "STORAGE", "c": "Alpha", "d": "Beta", "x": "Lonely"},
		map[string]string{"ea": "LogicComponent", "eb": "Storage", "ec": "Beta", "ed": "Alpha"},
	)
	findings := []consistency.Inconsistency{
		mismatch("a", "ea"),
		{Kind: consistency.KindUnexpectedLine, RuleID: "CN01", BoxID: "a", EntityID: "ea",
			Line: &consistency.Line{FromBox: "a", ToBox: "b", FromEntity: "ea", ToEntity: "eb"}},
		mismatch("b", "eb"),
		{Kind: consistency.KindMissingLine, RuleID: "CN01", BoxID: "b", EntityID: "eb",
			Line: &consistency.Line{FromBox: "b", ToBox: "a", FromEntity: "eb", ToEntity: "ea"}},
		mismatch("c", "ec"),
		mismatch("d", "ed"),
		{Kind: consistency.KindUnlinkedBox, RuleID: "LK01", BoxID: "x"},
		{Kind: consistency.KindUnrepresentedEntity, RuleID: "RP01", EntityID: "ez"},
	}
	return findings, n
}

func TestRefine_FullSequence(t *testing.T) {
	findings, n := scenario()

	out := Refine(findings, n)

	var kinds []consistency.Kind
	for _, f := range out {
		kinds = append(kinds, f.Kind)
	}
	assert.Equal(t, []consistency.Kind{
		consistency.KindGroup, // box a: name-extension + inverted-line
		consistency.KindCasing,
		consistency.KindSwap,
		consistency.KindUnlinkedBox,
		consistency.KindUnrepresentedEntity,
	}, kinds)
	assert.Equal(t, consistency.KindNameExtension, out[0].Members[0].Kind)
	assert.Equal(t, consistency.KindInvertedLine, out[0].Members[1].Kind)
}

func TestRefine_Idempotent(t *testing.T) {
	findings, n := scenario()

	once := Refine(findings, n)
	twice := Refine(once, n)

	assert.Equal(t, once, twice)
}

func TestRefine_KeepsEveryBaseFinding(t *testing.T) {
	findings, n := scenario()

	out := Refine(findings, n)

	assert.ElementsMatch(t, findings, consistency.Bases(out))
}
