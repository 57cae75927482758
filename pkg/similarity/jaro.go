package similarity

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// JaroSimilarity returns the Jaro similarity of the normalized inputs.
func JaroSimilarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	return strutil.Similarity(na, nb, metrics.NewJaro())
}

// JaroWinklerSimilarity boosts the Jaro score for strings sharing a prefix.
func JaroWinklerSimilarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	return strutil.Similarity(na, nb, metrics.NewJaroWinkler())
}
