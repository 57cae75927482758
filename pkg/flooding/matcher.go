package flooding

import (
	"log/slog"

	"github.com/leapstack-labs/sketchlink/pkg/graph"
)

// Defaults for the matcher's stopping criteria.
const (
	DefaultEpsilon       = 1.0
	DefaultMaxIterations = 100
)

// Result is the outcome of a flooding run.
type Result[A, B any] struct {
	Mapping    *Mapping[A, B]
	Iterations int
	// Converged is false when the run stopped at the iteration cap.
	Converged bool
}

// Matcher runs similarity flooding between a left and a right graph.
// The zero value is usable: nil functions fall back to InverseAverage,
// FixpointC and ExactLabels.
type Matcher[A, B any] struct {
	Coefficient   Coefficient
	Fixpoint      Fixpoint[A, B]
	Labels        LabelMatcher
	Epsilon       float64
	MaxIterations int
	Logger        *slog.Logger
}

// NewMatcher returns a matcher with the default formulas and stopping criteria.
func NewMatcher[A, B any](logger *slog.Logger) *Matcher[A, B] {
	return &Matcher[A, B]{
		Coefficient:   InverseAverage,
		Fixpoint:      FixpointC[A, B],
		Labels:        ExactLabels,
		Epsilon:       DefaultEpsilon,
		MaxIterations: DefaultMaxIterations,
		Logger:        logger,
	}
}

type propagation[A, B any] struct {
	from   Pair[A, B]
	to     Pair[A, B]
	weight float64
}

// Match floods initial over the PCG of g1 and g2. It never fails: when the
// delta does not drop below Epsilon within MaxIterations the last mapping is
// returned with Converged unset.
func (m *Matcher[A, B]) Match(g1 *graph.Graph[A], g2 *graph.Graph[B], initial *Mapping[A, B]) *Result[A, B] {
	logger := m.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fixpoint := m.Fixpoint
	if fixpoint == nil {
		fixpoint = FixpointC[A, B]
	}

	pcg := m.connectivity(g1, g2)
	propagate := func(sigma *Mapping[A, B]) *Mapping[A, B] {
		out := NewMapping(sigma.lefts, sigma.rights)
		for _, p := range pcg {
			s := sigma.scores[p.from]
			if s == 0 {
				continue
			}
			out.scores[p.to] += p.weight * s
		}
		return out
	}

	logger.Debug("flooding started",
		slog.Int("left_vertices", g1.VertexCount()),
		slog.Int("right_vertices", g2.VertexCount()),
		slog.Int("pcg_edges", len(pcg)))

	result := &Result[A, B]{Mapping: initial.Clone()}
	for result.Iterations < m.MaxIterations {
		next := fixpoint(initial, result.Mapping, propagate)
		next.Normalize()
		delta := next.Distance(result.Mapping)
		result.Mapping = next
		result.Iterations++

		if delta < m.Epsilon {
			result.Converged = true
			break
		}
	}

	if !result.Converged {
		logger.Warn("flooding stopped at iteration cap",
			slog.Int("iterations", result.Iterations))
	} else {
		logger.Debug("flooding converged", slog.Int("iterations", result.Iterations))
	}
	return result
}

// connectivity builds the weighted edges of the pairwise connectivity graph:
// a forward and a backward edge for every pair of label-compatible edges.
func (m *Matcher[A, B]) connectivity(g1 *graph.Graph[A], g2 *graph.Graph[B]) []propagation[A, B] {
	coefficient := m.Coefficient
	if coefficient == nil {
		coefficient = InverseAverage
	}
	labels := m.Labels
	if labels == nil {
		labels = ExactLabels
	}

	var pcg []propagation[A, B]
	for _, e1 := range g1.Edges() {
		for _, e2 := range g2.Edges() {
			if !labels(e1.Label, e2.Label) {
				continue
			}
			src := Pair[A, B]{Left: e1.From, Right: e2.From}
			dst := Pair[A, B]{Left: e1.To, Right: e2.To}
			pcg = append(pcg,
				propagation[A, B]{
					from:   src,
					to:     dst,
					weight: coefficient(g1.OutDegree(e1.From, e1.Label), g2.OutDegree(e2.From, e2.Label)),
				},
				propagation[A, B]{
					from:   dst,
					to:     src,
					weight: coefficient(g1.InDegree(e1.To, e1.Label), g2.InDegree(e2.To, e2.Label)),
				},
			)
		}
	}
	return pcg
}
