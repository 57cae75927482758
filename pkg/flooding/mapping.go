// Package flooding implements similarity flooding between two labeled graphs.
//
// The matcher builds the pairwise connectivity graph of the two inputs,
// assigns a propagation coefficient to each of its edges and iterates a
// fixpoint formula until the mapping stabilises or the iteration cap is hit.
package flooding

import (
	"math"

	"github.com/leapstack-labs/sketchlink/pkg/graph"
)

// Pair is a node of the pairwise connectivity graph.
type Pair[A, B any] struct {
	Left  *graph.Vertex[A]
	Right *graph.Vertex[B]
}

// Mapping is a similarity score over every pair of a left and a right vertex.
// Missing pairs score zero.
type Mapping[A, B any] struct {
	lefts  []*graph.Vertex[A]
	rights []*graph.Vertex[B]
	scores map[Pair[A, B]]float64
}

// NewMapping creates a mapping over the cartesian product of lefts and
// rights with every score at zero.
func NewMapping[A, B any](lefts []*graph.Vertex[A], rights []*graph.Vertex[B]) *Mapping[A, B] {
	return &Mapping[A, B]{
		lefts:  lefts,
		rights: rights,
		scores: make(map[Pair[A, B]]float64),
	}
}

// NewInitialMapping scores every pair of g1 x g2 with score and zeroes the
// scores below threshold. Scores are clamped to [0,1].
func NewInitialMapping[A, B any](g1 *graph.Graph[A], g2 *graph.Graph[B], score func(A, B) float64, threshold float64) *Mapping[A, B] {
	m := NewMapping(g1.Vertices(), g2.Vertices())
	for _, l := range m.lefts {
		for _, r := range m.rights {
			s := score(l.Value, r.Value)
			if s < threshold {
				continue
			}
			m.Set(l, r, math.Min(1, math.Max(0, s)))
		}
	}
	return m
}

// Get returns the score of (l, r).
func (m *Mapping[A, B]) Get(l *graph.Vertex[A], r *graph.Vertex[B]) float64 {
	return m.scores[Pair[A, B]{Left: l, Right: r}]
}

// Set replaces the score of (l, r).
func (m *Mapping[A, B]) Set(l *graph.Vertex[A], r *graph.Vertex[B], score float64) {
	p := Pair[A, B]{Left: l, Right: r}
	if score == 0 {
		delete(m.scores, p)
		return
	}
	m.scores[p] = score
}

// Add adds delta to the score of (l, r).
func (m *Mapping[A, B]) Add(l *graph.Vertex[A], r *graph.Vertex[B], delta float64) {
	m.Set(l, r, m.Get(l, r)+delta)
}

// Lefts returns the left vertices in insertion order.
func (m *Mapping[A, B]) Lefts() []*graph.Vertex[A] {
	return m.lefts
}

// Rights returns the right vertices in insertion order.
func (m *Mapping[A, B]) Rights() []*graph.Vertex[B] {
	return m.rights
}

// Pairs returns every pair of the cartesian product, left-major, each side
// in vertex insertion order.
func (m *Mapping[A, B]) Pairs() []Pair[A, B] {
	pairs := make([]Pair[A, B], 0, len(m.lefts)*len(m.rights))
	for _, l := range m.lefts {
		for _, r := range m.rights {
			pairs = append(pairs, Pair[A, B]{Left: l, Right: r})
		}
	}
	return pairs
}

// Max returns the highest score of the mapping, or zero when it is empty.
func (m *Mapping[A, B]) Max() float64 {
	maxScore := 0.0
	for _, s := range m.scores {
		maxScore = math.Max(maxScore, s)
	}
	return maxScore
}

// Normalize rescales every score so that the maximum becomes 1.
// An all-zero mapping is left alone.
func (m *Mapping[A, B]) Normalize() {
	maxScore := m.Max()
	if maxScore <= 0 {
		return
	}
	for p, s := range m.scores {
		m.scores[p] = s / maxScore
	}
}

// Distance returns the euclidean distance between m and other.
func (m *Mapping[A, B]) Distance(other *Mapping[A, B]) float64 {
	sum := 0.0
	for p, s := range m.scores {
		d := s - other.scores[p]
		sum += d * d
	}
	for p, s := range other.scores {
		if _, ok := m.scores[p]; ok {
			continue
		}
		sum += s * s
	}
	return math.Sqrt(sum)
}

// Clone returns an independent copy of m over the same vertices.
func (m *Mapping[A, B]) Clone() *Mapping[A, B] {
	c := NewMapping(m.lefts, m.rights)
	for p, s := range m.scores {
		c.scores[p] = s
	}
	return c
}

// Plus returns the point-wise sum of m and other.
func (m *Mapping[A, B]) Plus(other *Mapping[A, B]) *Mapping[A, B] {
	sum := m.Clone()
	for p, s := range other.scores {
		sum.scores[p] += s
	}
	return sum
}
