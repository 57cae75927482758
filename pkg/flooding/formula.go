package flooding

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/leapstack-labs/sketchlink/pkg/graph"
)

// Coefficient computes the propagation coefficient of a PCG edge from the
// same-labeled degrees of the two graph vertices it was derived from.
type Coefficient func(deg1, deg2 int) float64

// InverseAverage averages 1/deg1 and 1/deg2, so a vertex with many
// neighbours passes less similarity to each of them.
func InverseAverage(deg1, deg2 int) float64 {
	return (inverse(deg1) + inverse(deg2)) / 2
}

func inverse(deg int) float64 {
	if deg <= 0 {
		return 0
	}
	return 1 / float64(deg)
}

// LabelMatcher decides whether two edges with the given labels induce a PCG edge.
type LabelMatcher func(l1, l2 graph.Label) bool

// ExactLabels matches equal labels only.
func ExactLabels(l1, l2 graph.Label) bool {
	return l1 == l2
}

// Propagate computes φ(σ): the similarity every pair receives over the PCG.
type Propagate[A, B any] func(sigma *Mapping[A, B]) *Mapping[A, B]

// Fixpoint computes the next (unnormalised) mapping from the initial
// mapping σ0, the current mapping σk and the propagation function φ.
type Fixpoint[A, B any] func(initial, current *Mapping[A, B], propagate Propagate[A, B]) *Mapping[A, B]

// FixpointBasic is σk + φ(σk).
func FixpointBasic[A, B any](_, current *Mapping[A, B], propagate Propagate[A, B]) *Mapping[A, B] {
	return current.Plus(propagate(current))
}

// FixpointA is σ0 + φ(σk).
func FixpointA[A, B any](initial, current *Mapping[A, B], propagate Propagate[A, B]) *Mapping[A, B] {
	return initial.Plus(propagate(current))
}

// FixpointB is φ(σ0 + σk).
func FixpointB[A, B any](initial, current *Mapping[A, B], propagate Propagate[A, B]) *Mapping[A, B] {
	return propagate(initial.Plus(current))
}

// FixpointC is σ0 + σk + φ(σ0 + σk).
func FixpointC[A, B any](initial, current *Mapping[A, B], propagate Propagate[A, B]) *Mapping[A, B] {
	sum := initial.Plus(current)
	return sum.Plus(propagate(sum))
}

// Formula names a fixpoint formula.
type Formula string

// Fixpoint formula names.
const (
	FormulaBasic Formula = "basic"
	FormulaA     Formula = "a"
	FormulaB     Formula = "b"
	FormulaC     Formula = "c"
)

// Formulas lists the known formula names.
func Formulas() []Formula {
	return []Formula{FormulaBasic, FormulaA, FormulaB, FormulaC}
}

// ParseFormula converts a case-insensitive name to a Formula.
func ParseFormula(s string) (Formula, error) {
	f := Formula(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formulas() {
		if f == known {
			return f, nil
		}
	}
	return "", core.NewUnsupportedTypeError("fixpoint formula", s)
}

// FixpointFor returns the fixpoint function named by f.
func FixpointFor[A, B any](f Formula) Fixpoint[A, B] {
	switch f {
	case FormulaBasic:
		return FixpointBasic[A, B]
	case FormulaA:
		return FixpointA[A, B]
	case FormulaB:
		return FixpointB[A, B]
	case FormulaC, "":
		return FixpointC[A, B]
	default:
		panic(fmt.Errorf("fixpoint: %w", core.NewUnsupportedTypeError("fixpoint formula", string(f))))
	}
}
