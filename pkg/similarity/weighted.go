package similarity

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultMinWeight is the weight of a word that occurs in every entity name.
const DefaultMinWeight = 0.2

// Weighted is a word-rarity weighted Jaccard similarity.
//
// For every word w found in the entity names it was built from,
// weight(w) = minWeight + (1-minWeight) * (1 - count(w)/maxCount),
// where count(w) is the number of names containing w. Words never seen
// weigh 1.
type Weighted struct {
	minWeight float64
	counts    map[string]int
	maxCount  int
	key       string
}

// NewWeighted builds the word table from the given entity names.
// minWeight is clamped to [0,1].
func NewWeighted(names []string, minWeight float64) *Weighted {
	minWeight = clamp01(minWeight)
	w := &Weighted{
		minWeight: minWeight,
		counts:    make(map[string]int),
	}

	for _, name := range names {
		for word := range wordSet(name) {
			w.counts[word]++
			if w.counts[word] > w.maxCount {
				w.maxCount = w.counts[word]
			}
		}
	}
	w.key = weightedKey(names, minWeight)

	return w
}

// Key identifies the input the table was built from. Two tables with the same
// key produce identical scores.
func (w *Weighted) Key() string {
	return w.key
}

// MinWeight returns the weight floor the table was built with.
func (w *Weighted) MinWeight() float64 {
	return w.minWeight
}

// Weight returns the weight of a single word.
func (w *Weighted) Weight(word string) float64 {
	count, ok := w.counts[fold(word)]
	if !ok || w.maxCount == 0 {
		return 1
	}
	return w.minWeight + (1-w.minWeight)*(1-float64(count)/float64(w.maxCount))
}

// Similarity scores a and b: weight of the shared words divided by the
// weight of all words of both strings.
func (w *Weighted) Similarity(a, b string) float64 {
	wa, wb := wordSet(a), wordSet(b)
	if len(wa) == 0 && len(wb) == 0 {
		return 0
	}

	var shared, total float64
	for word := range wa {
		weight := w.Weight(word)
		total += weight
		if wb[word] {
			shared += weight
		}
	}
	for word := range wb {
		if !wa[word] {
			total += w.Weight(word)
		}
	}
	if total == 0 {
		return 0
	}
	return clamp01(shared / total)
}

// Func returns Similarity as a plain Func.
func (w *Weighted) Func() Func {
	return w.Similarity
}

func weightedKey(names []string, minWeight float64) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	var b strings.Builder
	for _, n := range sorted {
		b.WriteString(n)
		b.WriteByte(0)
	}
	b.WriteString(strconv.FormatFloat(minWeight, 'g', -1, 64))
	return b.String()
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
