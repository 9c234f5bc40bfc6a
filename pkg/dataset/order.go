package dataset

import (
	"sort"
	"strings"

	"github.com/khiin/dictgen/pkg/loji"
)

// OrderedSet records keys in first-insertion order.
type OrderedSet[K comparable] struct {
	index map[K]int
	keys  []K
}

// NewOrderedSet returns an empty set with room for n keys.
func NewOrderedSet[K comparable](n int) *OrderedSet[K] {
	return &OrderedSet[K]{index: make(map[K]int, n), keys: make([]K, 0, n)}
}

// Add inserts k and reports whether it was new.
func (s *OrderedSet[K]) Add(k K) bool {
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = len(s.keys)
	s.keys = append(s.keys, k)
	return true
}

// Has reports whether k is in the set.
func (s *OrderedSet[K]) Has(k K) bool {
	_, ok := s.index[k]
	return ok
}

// Keys returns the keys in insertion order.
func (s *OrderedSet[K]) Keys() []K { return s.keys }

// Len returns the number of keys.
func (s *OrderedSet[K]) Len() int { return len(s.keys) }

// Dedupe keeps the first item for each distinct key, preserving order.
func Dedupe[T any, K comparable](items []T, key func(T) K) []T {
	seen := NewOrderedSet[K](len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if seen.Add(key(it)) {
			out = append(out, it)
		}
	}
	return out
}

type conversionKey struct{ input, output string }

// DedupeFrequency keeps the first entry per input.
func DedupeFrequency(entries []FrequencyEntry) []FrequencyEntry {
	return Dedupe(entries, func(e FrequencyEntry) string { return e.Input })
}

// DedupeConversions keeps the first entry per (input, output) pair.
func DedupeConversions(entries []ConversionEntry) []ConversionEntry {
	return Dedupe(entries, func(e ConversionEntry) conversionKey {
		return conversionKey{e.Input, e.Output}
	})
}

// DedupeSyllables removes repeated tokens and returns them in collation order.
func DedupeSyllables(syls []string, c *loji.Collator) []string {
	out := Dedupe(syls, func(s string) string { return s })
	SortSyllables(out, c)
	return out
}

// FrequencyLess orders by descending frequency, then ascending chhan id.
func FrequencyLess(a, b FrequencyEntry) bool {
	if a.Freq != b.Freq {
		return a.Freq > b.Freq
	}
	return a.ChhanID < b.ChhanID
}

// ConversionCompare orders by collated input, then descending weight.
// Inputs the locale treats as equal are ranked by weight before they are
// told apart bytewise.
func ConversionCompare(c *loji.Collator, a, b ConversionEntry) int {
	if r := c.Collate(a.Input, b.Input); r != 0 {
		return r
	}
	switch {
	case a.Weight > b.Weight:
		return -1
	case a.Weight < b.Weight:
		return 1
	}
	return strings.Compare(a.Input, b.Input)
}

// SortFrequency sorts entries in place with FrequencyLess. The sort is stable.
func SortFrequency(entries []FrequencyEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return FrequencyLess(entries[i], entries[j])
	})
}

// SortConversions sorts entries in place with ConversionCompare. The sort is stable.
func SortConversions(entries []ConversionEntry, c *loji.Collator) {
	sort.SliceStable(entries, func(i, j int) bool {
		return ConversionCompare(c, entries[i], entries[j]) < 0
	})
}

// SortSyllables sorts syllables in collation order.
func SortSyllables(syls []string, c *loji.Collator) {
	sort.SliceStable(syls, func(i, j int) bool {
		return c.Less(syls[i], syls[j])
	})
}
