package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sketchlink/internal/selection"
	"github.com/leapstack-labs/sketchlink/internal/state"
	"github.com/leapstack-labs/sketchlink/pkg/consistency"
	"github.com/leapstack-labs/sketchlink/pkg/consistency/refine"
	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/leapstack-labs/sketchlink/pkg/flooding"
	"github.com/leapstack-labs/sketchlink/pkg/graph"
	"github.com/leapstack-labs/sketchlink/pkg/matching"
	"github.com/leapstack-labs/sketchlink/pkg/similarity"

	_ "github.com/leapstack-labs/sketchlink/pkg/consistency/rules" // register consistency rules
)

// SelectionStage finds occurrences and selects the depicted model types.
type SelectionStage struct {
	Skip     bool
	Selector *selection.Selector
}

func (s *SelectionStage) Name() string  { return "selection" }
func (s *SelectionStage) Skipped() bool { return s.Skip }

func (s *SelectionStage) Run(r *state.Run, logger *slog.Logger) error {
	if r.Diagram == nil {
		return core.NewMissingPreconditionError(s.Name(), "diagram")
	}
	if len(r.Models) == 0 {
		return core.NewMissingPreconditionError(s.Name(), "models")
	}
	s.Selector.Select(r)
	logger.Info("selection done", slog.Int("selected", len(r.Selection.Selected)))
	return nil
}

// MatchingStage floods text similarity over the diagram and model graphs of
// every selected model type.
type MatchingStage struct {
	Skip                    bool
	MinWeight               float64
	TextSimilarityThreshold float64
	Epsilon                 float64
	MaxIterations           int
	Formula                 flooding.Formula
}

func (s *MatchingStage) Name() string  { return "matching" }
func (s *MatchingStage) Skipped() bool { return s.Skip }

func (s *MatchingStage) Run(r *state.Run, logger *slog.Logger) error {
	if r.Diagram == nil {
		return core.NewMissingPreconditionError(s.Name(), "diagram")
	}
	if r.Selection == nil {
		return core.NewMissingPreconditionError(s.Name(), "selection")
	}
	sel := r.Selection
	for _, t := range sel.Selected {
		if _, ok := r.Models[t]; !ok {
			return core.NewMissingPreconditionError(s.Name(), "model "+string(t))
		}
	}

	weighted := s.weighted(r)
	if sel.Similarity == nil || sel.Similarity.Key() != weighted.Key() {
		sel.Similarity = weighted
		logger.Debug("word weights built", slog.Float64("min_weight", weighted.MinWeight()))
	}
	score := sel.Similarity.Func()

	boxes, err := graph.FromDiagram(r.Diagram)
	if err != nil {
		return fmt.Errorf("failed to build diagram graph: %w", err)
	}

	mappings := make(map[core.ModelType]*state.Mapping, len(sel.Selected))
	for _, t := range sel.Selected {
		entities, err := graph.FromModel(r.Models[t])
		if err != nil {
			return fmt.Errorf("failed to build %s model graph: %w", t, err)
		}

		initial := flooding.NewInitialMapping(boxes, entities, func(b *core.Box, e core.Entity) float64 {
			return score(b.Text, e.EntityName())
		}, s.TextSimilarityThreshold)

		matcher := flooding.NewMatcher[*core.Box, core.Entity](logger.With(slog.String("model_type", string(t))))
		matcher.Fixpoint = flooding.FixpointFor[*core.Box, core.Entity](s.Formula)
		matcher.Epsilon = s.Epsilon
		matcher.MaxIterations = s.MaxIterations
		res := matcher.Match(boxes, entities, initial)

		mappings[t] = &state.Mapping{
			Boxes:      boxes,
			Entities:   entities,
			Initial:    initial,
			Final:      res.Mapping,
			Iterations: res.Iterations,
			Converged:  res.Converged,
		}
	}

	for t, m := range mappings {
		sel.Mappings[t] = m
	}
	return nil
}

// weighted builds the word weights over the entity names of every selected model.
func (s *MatchingStage) weighted(r *state.Run) *similarity.Weighted {
	var names []string
	for _, t := range r.Selection.Selected {
		for _, e := range r.Models[t].Entities {
			names = append(names, e.EntityName())
		}
	}
	return similarity.NewWeighted(names, s.MinWeight)
}

// FilterStage turns every flooded mapping into a linkage.
type FilterStage struct {
	Skip    bool
	Options matching.Options
}

func (s *FilterStage) Name() string  { return "filter" }
func (s *FilterStage) Skipped() bool { return s.Skip }

func (s *FilterStage) Run(r *state.Run, logger *slog.Logger) error {
	if r.Selection == nil {
		return core.NewMissingPreconditionError(s.Name(), "selection")
	}
	for _, t := range r.Selection.Selected {
		if r.Selection.Mappings[t] == nil {
			return core.NewMissingPreconditionError(s.Name(), "mapping "+string(t))
		}
	}

	if r.Links == nil {
		r.Links = make(map[core.ModelType]*matching.Linkage, len(r.Selection.Selected))
	}
	opts := s.Options
	for _, t := range r.Selection.Selected {
		m := r.Selection.Mappings[t]
		opts.Logger = logger.With(slog.String("model_type", string(t)))
		links := matching.Select(m.Final, m.Initial, opts)
		r.SetLinks(t, links)
		logger.Info("linkage built",
			slog.String("model_type", string(t)),
			slog.Int("links", links.Len()),
			slog.Bool("converged", m.Converged),
			slog.Int("iterations", m.Iterations))
	}
	return nil
}

// RulesStage evaluates the consistency rules for every linked model type.
type RulesStage struct {
	Skip   bool
	Engine *consistency.Engine
}

func (s *RulesStage) Name() string  { return "rules" }
func (s *RulesStage) Skipped() bool { return s.Skip }

func (s *RulesStage) Run(r *state.Run, logger *slog.Logger) error {
	if r.Diagram == nil {
		return core.NewMissingPreconditionError(s.Name(), "diagram")
	}
	if r.Links == nil {
		return core.NewMissingPreconditionError(s.Name(), "links")
	}
	if r.Findings == nil {
		r.Findings = make(map[core.ModelType]*state.Findings, len(r.Links))
	}

	for _, t := range core.ModelTypes() {
		links, ok := r.Links[t]
		if !ok {
			continue
		}
		model, ok := r.Models[t]
		if !ok {
			logger.Error("links without model", slog.String("model_type", string(t)))
			continue
		}
		raw := s.Engine.Check(&consistency.Context{
			ModelType: t,
			Diagram:   r.Diagram,
			Model:     model,
			Linkage:   links,
		})
		findings := r.FindingsFor(t)
		findings.Raw = raw
		findings.Refined = nil
		logger.Info("rules evaluated", slog.String("model_type", string(t)), slog.Int("findings", len(raw)))
	}
	return nil
}

// RefineStage merges raw findings into refined ones.
type RefineStage struct {
	Skip bool
}

func (s *RefineStage) Name() string  { return "refine" }
func (s *RefineStage) Skipped() bool { return s.Skip }

func (s *RefineStage) Run(r *state.Run, logger *slog.Logger) error {
	if r.Findings == nil {
		return core.NewMissingPreconditionError(s.Name(), "findings")
	}

	for _, t := range core.ModelTypes() {
		f, ok := r.Findings[t]
		if !ok {
			continue
		}
		refined := refine.Refine(f.Raw, refine.NamesFor(r.Diagram, r.Models[t]))
		if refined == nil {
			refined = []consistency.Inconsistency{}
		}
		f.Refined = refined
		logger.Debug("findings refined",
			slog.String("model_type", string(t)),
			slog.Int("raw", len(f.Raw)),
			slog.Int("refined", len(refined)))
	}
	return nil
}
