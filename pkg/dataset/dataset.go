package dataset

import (
	"golang.org/x/text/language"

	"github.com/khiin/dictgen/pkg/loji"
)

// FrequencyEntry is one row of the frequency list. Unique by Input.
type FrequencyEntry struct {
	Input   string
	Freq    int
	ChhanID int
}

// ConversionEntry maps an input key to a candidate output. Unique by
// (Input, Output). Category and Annotation are optional source columns.
type ConversionEntry struct {
	Input      string
	Output     string
	Weight     int
	Category   *int
	Annotation string
}

// WordListEntry is a flattened candidate for the word-list export.
type WordListEntry struct {
	Reading string
	QString string
	Value   string
}

// SymbolEntry is a row of the symbols side table.
type SymbolEntry struct {
	Input    string
	Output   string
	Category *int
}

// EmojiEntry is a row of the emoji side table.
type EmojiEntry struct {
	ID        int
	Emoji     string
	ShortName string
	Category  int
	Code      string
}

// Bundle holds every dataset written by one emitter run. Symbols and Emoji
// are nil when their sources were not supplied.
type Bundle struct {
	Frequency   []FrequencyEntry
	Conversions []ConversionEntry
	Syllables   []string
	Symbols     []SymbolEntry
	Emoji       []EmojiEntry
}

// Options control how source rows are normalized and ordered.
type Options struct {
	// Style is the tone representation used for input keys.
	Style loji.KeyStyle
	// Collator orders conversion inputs and syllables. nil means the root locale.
	Collator *loji.Collator
	// ExcludeZeros drops zero-frequency rows from the frequency list.
	ExcludeZeros bool
	// Reweight, when set, replaces each conversion weight before sorting.
	Reweight func(output string, weight int) int
}

func (o Options) collator() *loji.Collator {
	if o.Collator != nil {
		return o.Collator
	}
	return loji.NewCollator(language.Und)
}
