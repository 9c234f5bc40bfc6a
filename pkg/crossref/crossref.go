package crossref

import (
	"strings"

	"github.com/khiin/dictgen/pkg/dataset"
	"github.com/khiin/dictgen/pkg/loji"
)

const (
	// HanjiWeight is assigned to outputs containing logographic characters
	// when the Hanji-first policy is enabled.
	HanjiWeight = 1000
	// LojiWeight is assigned to purely romanized outputs under the same policy.
	LojiWeight = 900
)

// Result is the cross-referenced dictionary.
type Result struct {
	Frequency   []dataset.FrequencyEntry
	Conversions []dataset.ConversionEntry
	Syllables   []string
}

// HanjiFirstWeight ignores the authored weight and ranks Hanji outputs
// above Loji ones. It has the signature of dataset.Options.Reweight.
func HanjiFirstWeight(output string, _ int) int {
	if loji.HasHanji(output) {
		return HanjiWeight
	}
	return LojiWeight
}

// Intersect keeps the frequency rows whose input has at least one
// conversion, and the conversions whose input survived in the filtered
// frequency list. Both results are re-sorted with the dataset comparators.
// Applying Intersect to its own output returns the same sets.
func Intersect(freq []dataset.FrequencyEntry, conv []dataset.ConversionEntry, c *loji.Collator) ([]dataset.FrequencyEntry, []dataset.ConversionEntry) {
	convInputs := dataset.NewOrderedSet[string](len(conv))
	for _, e := range conv {
		convInputs.Add(e.Input)
	}

	keptFreq := make([]dataset.FrequencyEntry, 0, len(freq))
	freqInputs := dataset.NewOrderedSet[string](len(freq))
	for _, e := range freq {
		if convInputs.Has(e.Input) {
			keptFreq = append(keptFreq, e)
			freqInputs.Add(e.Input)
		}
	}

	keptConv := make([]dataset.ConversionEntry, 0, len(conv))
	for _, e := range conv {
		if freqInputs.Has(e.Input) {
			keptConv = append(keptConv, e)
		}
	}

	dataset.SortFrequency(keptFreq)
	dataset.SortConversions(keptConv, c)
	return keptFreq, keptConv
}

// Syllables returns the syllable inventory: the supplied list plus every
// tone-stripped token of the given inputs, deduplicated and collated.
func Syllables(extra []string, freq []dataset.FrequencyEntry, conv []dataset.ConversionEntry, style loji.KeyStyle, c *loji.Collator) []string {
	all := make([]string, 0, len(extra)+len(freq)+len(conv))
	all = append(all, extra...)
	add := func(input string) {
		for _, syl := range strings.Split(input, " ") {
			if syl == "" {
				continue
			}
			all = append(all, loji.StripTones(syl, style))
		}
	}
	for _, e := range freq {
		add(e.Input)
	}
	for _, e := range conv {
		add(e.Input)
	}
	return dataset.DedupeSyllables(all, c)
}

// Run intersects the datasets and derives the syllable inventory from the
// surviving rows.
func Run(freq []dataset.FrequencyEntry, conv []dataset.ConversionEntry, extra []string, style loji.KeyStyle, c *loji.Collator) Result {
	f, cv := Intersect(freq, conv, c)
	return Result{
		Frequency:   f,
		Conversions: cv,
		Syllables:   Syllables(extra, f, cv, style, c),
	}
}
