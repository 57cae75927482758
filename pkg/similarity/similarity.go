package similarity

import (
	"strings"
	"unicode"

	"github.com/leapstack-labs/sketchlink/pkg/core"
	"golang.org/x/text/cases"
)

// Func scores the similarity of two strings in [0,1].
type Func func(a, b string) float64

// Function names a selectable similarity function.
type Function string

// Selectable similarity functions.
const (
	Levenshtein    Function = "levenshtein"
	JaroWinkler    Function = "jaro_winkler"
	Jaccard        Function = "jaccard"
	AdaptedJaccard Function = "adapted_jaccard"
)

// Functions lists every selectable function.
func Functions() []Function {
	return []Function{Levenshtein, JaroWinkler, Jaccard, AdaptedJaccard}
}

// ParseFunction converts a configuration value to a Function.
// Hyphens and case are ignored, so "JARO_WINKLER" and "jaro-winkler" both work.
func ParseFunction(s string) (Function, error) {
	f := Function(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch f {
	case Levenshtein, JaroWinkler, Jaccard, AdaptedJaccard:
		return f, nil
	default:
		return "", core.NewUnsupportedTypeError("similarity function", s)
	}
}

// Of returns the implementation of f.
func Of(f Function) Func {
	switch f {
	case Levenshtein:
		return LevenshteinSimilarity
	case JaroWinkler:
		return JaroWinklerSimilarity
	case Jaccard:
		return JaccardSimilarity
	case AdaptedJaccard:
		return AdaptedJaccardSimilarity
	default:
		panic(core.NewUnsupportedTypeError("similarity function", string(f)))
	}
}

// fold case-folds s. A Caser must not be shared between goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Normalize folds case and drops everything that is not a letter or digit.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range fold(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
