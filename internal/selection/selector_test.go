package selection

import (
	"testing"

	"github.com/leapstack-labs/sketchlink/internal/state"
	"github.com/leapstack-labs/sketchlink/internal/testutil"
	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diagram(texts ...string) *core.Diagram {
	boxes := make([]*core.Box, len(texts))
	for i, text := range texts {
		boxes[i] = &core.Box{ID: text, Text: text}
	}
	return core.NewDiagram("d", boxes, nil)
}

func TestOccurrences(t *testing.T) {
	s := New(DefaultOptions(), testutil.NewTestLogger(t))
	d := diagram("Logic", "Storage", "Unrelated")
	m := core.NewModel(core.ModelTypeArchitecture, []core.Entity{
		&core.ArchitectureItem{ID: "e1", Name: "logic"},
		&core.ArchitectureItem{ID: "e2", Name: "Storages", Kind: core.KindInterface},
	})

	occ := s.Occurrences(d, m)

	require.Len(t, occ, 2)
	assert.Equal(t, state.Occurrence{BoxID: "Logic", EntityID: "e1", Role: core.KindComponent, Score: 1}, occ[0])
	assert.Equal(t, "Storage", occ[1].BoxID)
	assert.Equal(t, core.KindInterface, occ[1].Role)
	assert.InDelta(t, 0.875, occ[1].Score, 1e-9)
}

func TestDecide(t *testing.T) {
	d := diagram("a", "b", "c", "d")
	occ := func(boxes ...string) []state.Occurrence {
		var out []state.Occurrence
		for _, b := range boxes {
			out = append(out, state.Occurrence{BoxID: b})
		}
		return out
	}

	tests := []struct {
		name        string
		occurrences map[core.ModelType][]state.Occurrence
		want        []core.ModelType
	}{
		{
			name: "best ratio wins",
			occurrences: map[core.ModelType][]state.Occurrence{
				core.ModelTypeArchitecture: occ("a", "b", "c"),
				core.ModelTypeCode:         occ("a"),
			},
			want: []core.ModelType{core.ModelTypeArchitecture},
		},
		{
			name: "ties select both",
			occurrences: map[core.ModelType][]state.Occurrence{
				core.ModelTypeArchitecture: occ("a", "b"),
				core.ModelTypeCode:         occ("c", "d", "d"),
			},
			want: []core.ModelType{core.ModelTypeArchitecture, core.ModelTypeCode},
		},
		{
			name: "nothing above match threshold",
			occurrences: map[core.ModelType][]state.Occurrence{
				core.ModelTypeArchitecture: nil,
				core.ModelTypeCode:         nil,
			},
			want: nil,
		},
	}

	s := New(DefaultOptions(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Decide(d, tt.occurrences))
		})
	}
}

func TestSelect_WritesRunState(t *testing.T) {
	d := diagram("Parser", "Lexer")
	arch := core.NewModel(core.ModelTypeArchitecture, []core.Entity{
		&core.ArchitectureItem{ID: "a1", Name: "Frontend"},
	})
	code := core.NewModel(core.ModelTypeCode, []core.Entity{
		&core.CodeItem{ID: "c1", Name: "parser", Kind: core.KindPackage},
		&core.CodeItem{ID: "c2", Name: "lexer", Kind: core.KindPackage},
	})
	r := state.New(d, arch, code)

	New(DefaultOptions(), testutil.NewTestLogger(t)).Select(r)

	require.NotNil(t, r.Selection)
	assert.Equal(t, []core.ModelType{core.ModelTypeCode}, r.Selection.Selected)
	assert.Len(t, r.Selection.Occurrences[core.ModelTypeCode], 2)
	assert.Empty(t, r.Selection.Occurrences[core.ModelTypeArchitecture])
}

func TestRatio_EmptyDiagram(t *testing.T) {
	assert.Zero(t, Ratio(core.NewDiagram("d", nil, nil), nil))
}
