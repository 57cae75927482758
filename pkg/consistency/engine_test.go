package consistency

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/sketchlink/internal/testutil"
	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/leapstack-labs/sketchlink/pkg/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyRule records every call it receives.
type spyRule struct {
	BaseRule
	setups    int
	teardowns int
	calls     []call
}

type call struct {
	box    string
	entity string
}

func (s *spyRule) Setup(ctx *Context) {
	s.setups++
	s.BaseRule.Setup(ctx)
}

func (s *spyRule) TearDown() {
	s.teardowns++
	s.BaseRule.TearDown()
}

func (s *spyRule) Check(box *core.Box, entity core.Entity) []Inconsistency {
	c := call{}
	if box != nil {
		c.box = box.ID
	}
	if entity != nil {
		c.entity = entity.EntityID()
	}
	s.calls = append(s.calls, c)
	return []Inconsistency{{Kind: KindUnlinkedBox, BoxID: c.box, EntityID: c.entity}}
}

func newSpy() *spyRule {
	return &spyRule{BaseRule: NewBaseRule(RuleDef{ID: "SPY", Name: "spy", Severity: core.SeverityWarning})}
}

func fixture(t *testing.T) *Context {
	t.Helper()
	d := core.NewDiagram("d", []*core.Box{
		{ID: "b1", Text: "A"},
		{ID: "b2", Text: "B"},
		{ID: "b3", Text: "C"},
	}, nil)
	m := core.NewModel(core.ModelTypeArchitecture, []core.Entity{
		&core.ArchitectureItem{ID: "e1", Name: "A"},
		&core.ArchitectureItem{ID: "e2", Name: "B"},
		&core.ArchitectureItem{ID: "e3", Name: "D"},
		&core.ArchitectureItem{ID: "e4", Name: "E"},
	})
	l := matching.NewLinkage()
	require.NoError(t, l.Link("b2", "e1"))
	require.NoError(t, l.Link("b1", "e2"))
	return &Context{ModelType: core.ModelTypeArchitecture, Diagram: d, Model: m, Linkage: l}
}

func TestEngine_CoveragePartition(t *testing.T) {
	spy := newSpy()
	engine := NewEngine(nil, testutil.NewTestLogger(t))

	findings := engine.CheckRules(fixture(t), []Rule{spy})

	assert.Equal(t, []call{
		{box: "b2", entity: "e1"},
		{box: "b1", entity: "e2"},
		{box: "b3"},
		{entity: "e3"},
		{entity: "e4"},
	}, spy.calls)
	assert.Equal(t, 1, spy.setups)
	assert.Equal(t, 1, spy.teardowns)
	assert.Nil(t, spy.Ctx, "context dropped on teardown")

	require.Len(t, findings, 5)
	for _, f := range findings {
		assert.Equal(t, "SPY", f.RuleID)
		assert.Equal(t, core.SeverityWarning, f.Severity)
	}
}

func TestEngine_SeverityOverride(t *testing.T) {
	engine := NewEngine(&EngineConfig{}, nil)
	engine.SetSeverity("SPY", core.SeverityHint)

	findings := engine.CheckRules(fixture(t), []Rule{newSpy()})

	require.NotEmpty(t, findings)
	assert.Equal(t, core.SeverityHint, findings[0].Severity)
}

func TestEngine_NilLinkage(t *testing.T) {
	ctx := fixture(t)
	ctx.Linkage = nil
	spy := newSpy()

	NewEngine(nil, nil).CheckRules(ctx, []Rule{spy})

	assert.Len(t, spy.calls, 7)
	for _, c := range spy.calls {
		assert.True(t, (c.box == "") != (c.entity == ""), "exactly one side per unmatched check")
	}
}

func TestRegistry(t *testing.T) {
	Clear()
	defer Clear()

	Register(RuleDef{ID: "ZZ01", Name: "z", New: func(def RuleDef) Rule { return newSpy() }})
	Register(RuleDef{ID: "AA01", Name: "a", ModelTypes: []core.ModelType{core.ModelTypeCode}})

	assert.Equal(t, 2, Count())
	all := GetAll()
	assert.Equal(t, "AA01", all[0].ID)
	assert.Equal(t, "ZZ01", all[1].ID)

	arch := RulesFor(core.ModelTypeArchitecture)
	require.Len(t, arch, 1)
	assert.Equal(t, "ZZ01", arch[0].ID)
	assert.Len(t, RulesFor(core.ModelTypeCode), 2)

	engine := NewEngine(nil, nil)
	engine.Disable("AA01")
	assert.Len(t, engine.Rules(core.ModelTypeCode), 1)

	def, ok := GetByID("AA01")
	assert.True(t, ok)
	assert.Equal(t, []core.ModelType{core.ModelTypeCode}, def.Info().ModelTypes)
}

func TestDecodeOptions(t *testing.T) {
	var opts struct {
		IgnoreSelfLines bool `mapstructure:"ignore_self_lines"`
	}
	require.NoError(t, DecodeOptions(map[string]any{"ignore_self_lines": "true"}, &opts))
	assert.True(t, opts.IgnoreSelfLines)

	assert.Error(t, DecodeOptions(map[string]any{"unknown": 1}, &opts))
	assert.NoError(t, DecodeOptions(nil, &opts))
}

func TestInconsistency_Bases(t *testing.T) {
	a := Inconsistency{Kind: KindMissingLine, BoxID: "b1"}
	b := Inconsistency{Kind: KindUnexpectedLine, BoxID: "b1"}
	inv := Inconsistency{Kind: KindInvertedLine, BoxID: "b1", Members: []Inconsistency{a, b}}
	group := Inconsistency{Kind: KindGroup, BoxID: "b1", Members: []Inconsistency{inv, {Kind: KindWrongParent, BoxID: "b1"}}}

	bases := group.Bases()
	require.Len(t, bases, 3)
	assert.Equal(t, KindMissingLine, bases[0].Kind)
	assert.Equal(t, KindWrongParent, bases[2].Kind)
	assert.True(t, KindGroup.IsRefined())
	assert.False(t, KindMissingLine.IsRefined())
}

func TestInconsistency_MarshalJSONKeepsNullIDs(t *testing.T) {
	data, err := json.Marshal(Inconsistency{Kind: KindUnlinkedBox, RuleID: "LK01", BoxID: "b1", Severity: core.SeverityError})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "b1", got["box"])
	assert.Contains(t, got, "entity")
	assert.Nil(t, got["entity"])
	assert.Equal(t, "error", got["severity"])
}
