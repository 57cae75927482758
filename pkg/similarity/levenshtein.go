package similarity

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// LevenshteinDistance returns the edit distance between a and b, counted in runes.
func LevenshteinDistance(a, b string) int {
	return metrics.NewLevenshtein().Distance(a, b)
}

// LevenshteinSimilarity is 1 - distance/maxLength over the normalized inputs.
// An input without letters or digits matches nothing.
func LevenshteinSimilarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	return strutil.Similarity(na, nb, metrics.NewLevenshtein())
}
