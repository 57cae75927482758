// Package selection decides which loaded models a diagram depicts.
//
// Every box text is compared with every entity name; a box that reaches the
// per-type threshold with at least one entity counts as an occurrence of
// that model type. Types whose occurrence ratio is close enough to the best
// ratio are selected.
package selection

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sketchlink/internal/state"
	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/leapstack-labs/sketchlink/pkg/similarity"
)

// Options configures the selector.
type Options struct {
	Function       similarity.Function
	Thresholds     map[core.ModelType]float64
	MatchThreshold float64
	MatchDelta     float64
}

// DefaultOptions returns the default selector options.
func DefaultOptions() Options {
	return Options{
		Function: similarity.Levenshtein,
		Thresholds: map[core.ModelType]float64{
			core.ModelTypeArchitecture: 0.6,
			core.ModelTypeCode:         0.8,
		},
		MatchThreshold: 0.05,
		MatchDelta:     0.05,
	}
}

// Selector finds occurrences and selects model types.
type Selector struct {
	opts   Options
	score  similarity.Func
	logger *slog.Logger
}

// New creates a selector. It panics on an unknown similarity function.
func New(opts Options, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Selector{opts: opts, score: similarity.Of(opts.Function), logger: logger}
}

// Occurrences returns every (box, entity) pair of d x m whose text
// similarity reaches the threshold of m's type, in diagram then model order.
func (s *Selector) Occurrences(d *core.Diagram, m *core.Model) []state.Occurrence {
	threshold, ok := s.opts.Thresholds[m.Type]
	if !ok {
		panic(core.NewUnsupportedTypeError("model type", string(m.Type)))
	}

	var occ []state.Occurrence
	for _, b := range d.Boxes {
		for _, e := range m.Entities {
			score := s.score(b.Text, e.EntityName())
			if score < threshold {
				continue
			}
			occ = append(occ, state.Occurrence{
				BoxID:    b.ID,
				EntityID: e.EntityID(),
				Role:     Role(e),
				Score:    score,
			})
		}
	}
	return occ
}

// Ratio returns the share of d's boxes with at least one occurrence.
func Ratio(d *core.Diagram, occ []state.Occurrence) float64 {
	if len(d.Boxes) == 0 {
		return 0
	}
	hit := make(map[string]bool)
	for _, o := range occ {
		hit[o.BoxID] = true
	}
	return float64(len(hit)) / float64(len(d.Boxes))
}

// Decide selects every type whose ratio is within MatchDelta of the best
// ratio and at least MatchThreshold. Types keep evaluation order.
func (s *Selector) Decide(d *core.Diagram, occurrences map[core.ModelType][]state.Occurrence) []core.ModelType {
	ratios := make(map[core.ModelType]float64, len(occurrences))
	best := 0.0
	for t, occ := range occurrences {
		ratios[t] = Ratio(d, occ)
		best = max(best, ratios[t])
	}

	var selected []core.ModelType
	for _, t := range core.ModelTypes() {
		ratio, ok := ratios[t]
		if !ok {
			continue
		}
		if ratio >= best-s.opts.MatchDelta && ratio >= s.opts.MatchThreshold {
			selected = append(selected, t)
		}
		s.logger.Debug("model type ratio",
			slog.String("model_type", string(t)),
			slog.Float64("ratio", ratio),
			slog.Bool("selected", ratio >= best-s.opts.MatchDelta && ratio >= s.opts.MatchThreshold))
	}
	return selected
}

// Select records occurrences and the selected types of every loaded model
// in r.
func (s *Selector) Select(r *state.Run) {
	sel := r.EnsureSelection()
	for _, t := range r.ModelTypes() {
		sel.Occurrences[t] = s.Occurrences(r.Diagram, r.Models[t])
	}
	sel.Selected = s.Decide(r.Diagram, sel.Occurrences)
	s.logger.Info("models selected", slog.Any("model_types", sel.Selected))
}

// Role classifies an entity for occurrence reporting.
func Role(e core.Entity) core.EntityKind {
	switch v := e.(type) {
	case *core.ArchitectureItem:
		if v.IsComponent() {
			return core.KindComponent
		}
		return v.Kind
	case *core.CodeItem:
		return v.Kind
	default:
		panic(core.NewUnsupportedTypeError("entity", fmt.Sprintf("%T", e)))
	}
}
