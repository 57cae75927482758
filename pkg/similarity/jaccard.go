package similarity

// adaptedWordThreshold is the Levenshtein similarity above which two words
// count as the same word for AdaptedJaccardSimilarity.
const adaptedWordThreshold = 0.8

// JaccardSimilarity is |A∩B| / |A∪B| over the word sets of a and b.
// Word order is irrelevant: "user store" and "StoreUser" are identical.
func JaccardSimilarity(a, b string) float64 {
	wa, wb := wordSet(a), wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	shared := 0
	for w := range wa {
		if wb[w] {
			shared++
		}
	}
	return float64(shared) / float64(len(wa)+len(wb)-shared)
}

// AdaptedJaccardSimilarity is Jaccard similarity where words are matched
// fuzzily: each word of a pairs with at most one unused word of b whose
// Levenshtein similarity is at least 0.8.
func AdaptedJaccardSimilarity(a, b string) float64 {
	wa, wb := Words(a), Words(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	used := make([]bool, len(wb))
	shared := 0
	for _, x := range wa {
		for j, y := range wb {
			if used[j] || LevenshteinSimilarity(x, y) < adaptedWordThreshold {
				continue
			}
			used[j] = true
			shared++
			break
		}
	}
	return float64(shared) / float64(len(wa)+len(wb)-shared)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range Words(s) {
		set[w] = true
	}
	return set
}
