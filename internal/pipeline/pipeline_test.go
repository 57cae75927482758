package pipeline

import (
	"context"
	"log/slog"
	"testing"

	"github.com/leapstack-labs/sketchlink/internal/config"
	"github.com/leapstack-labs/sketchlink/internal/state"
	"github.com/leapstack-labs/sketchlink/internal/testutil"
	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeline(t *testing.T, cfg *config.Config) *Pipeline {
	t.Helper()
	p, err := FromConfig(cfg, testutil.NewTestLogger(t))
	require.NoError(t, err)
	return p
}

func kinds(findings []consistency.Inconsistency) []consistency.Kind {
	out := make([]consistency.Kind, len(findings))
	for i, f := range findings {
		out[i] = f.Kind
	}
	return out
}

func TestFromConfig_StageOrder(t *testing.T) {
	p := newPipeline(t, config.Default())

	var names []string
	for _, s := range p.Stages() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"selection", "matching", "filter", "rules", "refine"}, names)
}

func TestFromConfig_Invalid(t *testing.T) {
	cfg := config.Default()
	cfg.Matching.Formula = "z"
	_, err := FromConfig(cfg, nil)
	assert.ErrorIs(t, err, core.ErrUnsupportedType)
}

func TestRun_NameExtension(t *testing.T) {
	d := core.NewDiagram("d", []*core.Box{{ID: "b1", Text: "Logic"}}, nil)
	m := core.NewModel(core.ModelTypeArchitecture, []core.Entity{
		&core.ArchitectureItem{ID: "e1", Name: "LogicComponent"},
		&core.ArchitectureItem{ID: "e2", Name: "StorageComponent"},
		&core.ArchitectureItem{ID: "e3", Name: "UIComponent"},
	})
	cfg := config.Default()
	cfg.Selection.Skip = true

	r := state.New(d, m)
	r.SelectAll()
	require.NoError(t, newPipeline(t, cfg).Run(context.Background(), r))

	links := r.Links[core.ModelTypeArchitecture]
	require.NotNil(t, links)
	entity, ok := links.EntityFor("b1")
	require.True(t, ok)
	assert.Equal(t, "e1", entity)
	assert.Equal(t, 1, links.Len())

	mapping := r.Selection.Mappings[core.ModelTypeArchitecture]
	require.NotNil(t, mapping)
	assert.True(t, mapping.Converged)

	got := r.Findings[core.ModelTypeArchitecture].Result()
	assert.Equal(t, []consistency.Kind{
		consistency.KindNameExtension,
		consistency.KindUnrepresentedEntity,
		consistency.KindUnrepresentedEntity,
	}, kinds(got))
	assert.Equal(t, "b1", got[0].BoxID)
	assert.Equal(t, "e2", got[1].EntityID)
	assert.Equal(t, "e3", got[2].EntityID)
}

func TestRun_UnlinkedBox(t *testing.T) {
	d := core.NewDiagram("d", []*core.Box{
		{ID: "b1", Text: "Logic"},
		{ID: "b2", Text: "Spaceship"},
	}, nil)
	m := core.NewModel(core.ModelTypeArchitecture, []core.Entity{
		&core.ArchitectureItem{ID: "e1", Name: "Logic"},
		&core.ArchitectureItem{ID: "e2", Name: "Storage"},
	})

	r := state.New(d, m)
	require.NoError(t, newPipeline(t, config.Default()).Run(context.Background(), r))

	assert.Equal(t, []core.ModelType{core.ModelTypeArchitecture}, r.Selection.Selected)

	got := r.Findings[core.ModelTypeArchitecture].Result()
	require.Len(t, got, 2)
	assert.Equal(t, consistency.KindUnlinkedBox, got[0].Kind)
	assert.Equal(t, "b2", got[0].BoxID)
	assert.Empty(t, got[0].EntityID)
	assert.Equal(t, consistency.KindUnrepresentedEntity, got[1].Kind)
	assert.Equal(t, "e2", got[1].EntityID)
}

func TestRun_InvertedLine(t *testing.T) {
	d := core.NewDiagram("d", []*core.Box{
		{ID: "A", Text: "Logic"},
		{ID: "B", Text: "Storage"},
	}, []core.Connection{{From: "A", To: "B"}})
	m := core.NewModel(core.ModelTypeArchitecture, []core.Entity{
		&core.ArchitectureItem{ID: "eL", Name: "Logic"},
		&core.ArchitectureItem{ID: "eS", Name: "Storage", Relations: []core.Relation{
			{Kind: core.RelationDependsOn, Target: "eL"},
		}},
	})

	r := state.New(d, m)
	require.NoError(t, newPipeline(t, config.Default()).Run(context.Background(), r))

	findings := r.Findings[core.ModelTypeArchitecture]
	assert.Equal(t, []consistency.Kind{
		consistency.KindUnexpectedLine,
		consistency.KindMissingLine,
	}, kinds(findings.Raw))

	require.Len(t, findings.Refined, 1)
	inv := findings.Refined[0]
	assert.Equal(t, consistency.KindInvertedLine, inv.Kind)
	assert.Equal(t, "A", inv.BoxID)
	assert.Len(t, inv.Members, 2)
}

func TestRun_SkipRefine(t *testing.T) {
	d := core.NewDiagram("d", []*core.Box{{ID: "b1", Text: "Logic"}}, nil)
	m := core.NewModel(core.ModelTypeArchitecture, []core.Entity{
		&core.ArchitectureItem{ID: "e1", Name: "LogicComponent"},
		&core.ArchitectureItem{ID: "e2", Name: "StorageComponent", Kind: core.KindInterface},
		&core.ArchitectureItem{ID: "e3", Name: "UIComponent", Kind: core.KindInterface},
	})
	cfg := config.Default()
	cfg.Selection.Skip = true
	cfg.Refine.Skip = true

	r := state.New(d, m)
	r.SelectAll()
	require.NoError(t, newPipeline(t, cfg).Run(context.Background(), r))

	findings := r.Findings[core.ModelTypeArchitecture]
	assert.Nil(t, findings.Refined)
	assert.Equal(t, []consistency.Kind{consistency.KindNameMismatch}, kinds(findings.Result()))
}

func TestRun_MissingPreconditions(t *testing.T) {
	d := core.NewDiagram("d", []*core.Box{{ID: "b1", Text: "Logic"}}, nil)
	m := core.NewModel(core.ModelTypeArchitecture, []core.Entity{
		&core.ArchitectureItem{ID: "e1", Name: "Logic"},
	})
	cfg := config.Default()
	cfg.Selection.Skip = true
	logger, logs := testutil.NewCaptureLogger(slog.LevelDebug)
	p, err := FromConfig(cfg, logger)
	require.NoError(t, err)

	r := state.New(d, m)
	require.NoError(t, p.Run(context.Background(), r))

	assert.Nil(t, r.Selection)
	assert.Nil(t, r.Links)
	assert.Nil(t, r.Findings)

	out := logs.String()
	assert.Contains(t, out, "stage skipped")
	assert.Contains(t, out, "stage=matching")
	assert.Contains(t, out, "selection not present in run state")
	assert.Contains(t, out, "findings not present in run state")
}

func TestRun_NothingSelected(t *testing.T) {
	d := core.NewDiagram("d", []*core.Box{{ID: "b1", Text: "Spaceship"}}, nil)
	m := core.NewModel(core.ModelTypeArchitecture, []core.Entity{
		&core.ArchitectureItem{ID: "e1", Name: "Logic"},
	})
	logger, logs := testutil.NewCaptureLogger(slog.LevelDebug)
	p, err := FromConfig(config.Default(), logger)
	require.NoError(t, err)

	r := state.New(d, m)
	require.NoError(t, p.Run(context.Background(), r))

	require.NotNil(t, r.Selection)
	assert.Empty(t, r.Selection.Selected)
	require.NotNil(t, r.Links)
	assert.Empty(t, r.Links)
	require.NotNil(t, r.Findings)
	assert.Empty(t, r.Findings)
	assert.NotContains(t, logs.String(), "stage not run")
}

func TestStages_MissingPrecondition(t *testing.T) {
	logger := testutil.NewTestLogger(t)
	r := state.New(nil)

	for _, s := range newPipeline(t, config.Default()).Stages() {
		err := s.Run(r, logger)
		assert.ErrorIs(t, err, core.ErrMissingPrecondition, s.Name())
	}
	assert.Nil(t, r.Selection)
}

func TestMatchingStage_ReusesSimilarity(t *testing.T) {
	d := core.NewDiagram("d", []*core.Box{{ID: "b1", Text: "Logic"}}, nil)
	m := core.NewModel(core.ModelTypeArchitecture, []core.Entity{
		&core.ArchitectureItem{ID: "e1", Name: "Logic"},
	})
	r := state.New(d, m)
	r.SelectAll()

	stage := &MatchingStage{
		MinWeight:               config.DefaultMinWeight,
		TextSimilarityThreshold: config.DefaultTextSimilarityThreshold,
		Epsilon:                 config.DefaultEpsilon,
		MaxIterations:           config.DefaultMaxIterations,
	}
	logger := testutil.NewTestLogger(t)

	require.NoError(t, stage.Run(r, logger))
	first := r.Selection.Similarity
	require.NotNil(t, first)

	require.NoError(t, stage.Run(r, logger))
	assert.Same(t, first, r.Selection.Similarity)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := state.New(core.NewDiagram("d", nil, nil))
	err := newPipeline(t, config.Default()).Run(ctx, r)
	assert.ErrorIs(t, err, context.Canceled)
}
