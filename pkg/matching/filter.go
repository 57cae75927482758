package matching

import (
	"log/slog"
	"sort"

	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/leapstack-labs/sketchlink/pkg/flooding"
)

// Default thresholds of the ordered filter.
const (
	DefaultSimilarityThreshold     = 0.06
	DefaultTextSimilarityThreshold = 0.68
)

// Options configures the ordered matching filter.
type Options struct {
	// SimilarityThreshold is the minimum flooded score of an accepted pair.
	SimilarityThreshold float64
	// TextSimilarityThreshold is the minimum initial text score of an accepted pair.
	TextSimilarityThreshold float64
	Logger                  *slog.Logger
}

// DefaultOptions returns the default filter options.
func DefaultOptions() Options {
	return Options{
		SimilarityThreshold:     DefaultSimilarityThreshold,
		TextSimilarityThreshold: DefaultTextSimilarityThreshold,
	}
}

type candidate[A, B any] struct {
	pair    flooding.Pair[A, B]
	score   float64
	initial float64
}

// Select greedily extracts a linkage from final, highest score first.
// Ties keep left-major vertex insertion order. A pair is accepted when its
// final score reaches SimilarityThreshold, its initial score reaches
// TextSimilarityThreshold and neither side is linked yet.
func Select(final, initial *flooding.Mapping[*core.Box, core.Entity], opts Options) *Linkage {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pairs := final.Pairs()
	candidates := make([]candidate[*core.Box, core.Entity], 0, len(pairs))
	for _, p := range pairs {
		candidates = append(candidates, candidate[*core.Box, core.Entity]{
			pair:    p,
			score:   final.Get(p.Left, p.Right),
			initial: initial.Get(p.Left, p.Right),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	linkage := NewLinkage()
	for _, c := range candidates {
		if c.score < opts.SimilarityThreshold {
			// sorted: nothing further can pass
			break
		}
		if c.initial < opts.TextSimilarityThreshold {
			continue
		}
		boxID := c.pair.Left.Value.ID
		entityID := c.pair.Right.Value.EntityID()
		if linkage.HasBox(boxID) || linkage.HasEntity(entityID) {
			continue
		}
		if err := linkage.Link(boxID, entityID); err != nil {
			// unreachable after the checks above
			logger.Error("link rejected", slog.String("error", err.Error()))
			continue
		}
		logger.Debug("linked",
			slog.String("box", boxID),
			slog.String("entity", entityID),
			slog.Float64("score", c.score),
			slog.Float64("initial", c.initial))
	}
	return linkage
}
