package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagram_Lookups(t *testing.T) {
	d := NewDiagram("d", []*Box{
		{ID: "ui", Text: "UI"},
		{ID: "logic", Text: "Logic"},
		{ID: "core", Text: "Core", ParentID: "logic"},
		{ID: "util", Text: "Util", ParentID: "core"},
	}, []Connection{{From: "ui", To: "logic"}})

	b, ok := d.Box("core")
	require.True(t, ok)
	parent, ok := d.Parent(b)
	require.True(t, ok)
	assert.Equal(t, "logic", parent.ID)

	assert.Len(t, d.Children("logic"), 1)
	assert.True(t, d.Contains("logic", "util"))
	assert.False(t, d.Contains("ui", "util"))
	assert.Equal(t, []string{"logic"}, d.Outgoing("ui"))
	assert.True(t, d.Connected("ui", "logic"))
	assert.False(t, d.Connected("logic", "ui"))
}

func TestDiagram_ContainsTerminatesOnParentCycle(t *testing.T) {
	d := NewDiagram("d", []*Box{
		{ID: "a", ParentID: "b"},
		{ID: "b", ParentID: "a"},
	}, nil)

	assert.False(t, d.Contains("c", "a"))
	assert.True(t, d.Contains("b", "a"))
}

func TestModel_Relations(t *testing.T) {
	m := NewModel(ModelTypeCode, []Entity{
		&CodeItem{ID: "p", Name: "app", Kind: KindPackage, Relations: []Relation{
			{Kind: RelationContains, Target: "sp"},
		}},
		&CodeItem{ID: "sp", Name: "app.store", Kind: KindPackage, Relations: []Relation{
			{Kind: RelationContains, Target: "u"},
			{Kind: RelationDependsOn, Target: "p"},
		}},
		&CodeItem{ID: "u", Name: "Store", Kind: KindUnit},
	})

	parent, ok := m.Parent("u")
	require.True(t, ok)
	assert.Equal(t, "sp", parent)
	assert.True(t, m.Contains("p", "u"))
	assert.False(t, m.Contains("u", "p"))
	assert.Equal(t, []string{"sp"}, m.Children("p"))
	assert.True(t, m.DependsOn("sp", "p"))
	assert.False(t, m.DependsOn("p", "sp"))
	assert.Equal(t, []string{"p"}, m.Dependencies("sp"))
}

func TestNewModel_RejectsForeignEntity(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrUnsupportedType))
	}()

	NewModel(ModelTypeArchitecture, []Entity{&CodeItem{ID: "x"}})
}

func TestParseModelType(t *testing.T) {
	mt, err := ParseModelType("code")
	require.NoError(t, err)
	assert.Equal(t, ModelTypeCode, mt)

	_, err = ParseModelType("uml")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
		ok   bool
	}{
		{"error", SeverityError, true},
		{"WARNING", SeverityWarning, true},
		{"info", SeverityInfo, true},
		{"hint", SeverityHint, true},
		{"fatal", SeverityWarning, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSeverity(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSeverity_Text(t *testing.T) {
	text, err := SeverityHint.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "hint", string(text))

	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("Error")))
	assert.Equal(t, SeverityError, s)
	assert.ErrorIs(t, s.UnmarshalText([]byte("fatal")), ErrUnsupportedType)
}

func TestErrorsMatchSentinels(t *testing.T) {
	assert.ErrorIs(t, NewMissingPreconditionError("match", "selection"), ErrMissingPrecondition)
	assert.ErrorIs(t, NewMalformedInputError("diagram", "box %q", "x"), ErrMalformedInput)
	assert.ErrorIs(t, NewConfigError("matching.epsilon", "must be positive"), ErrInvalidConfig)
	assert.EqualError(t, NewMissingPreconditionError("match", "selection"), "stage match: selection not present in run state")
}
