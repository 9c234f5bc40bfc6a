package dataset

import (
	"bufio"
	"io"
	"strings"

	"github.com/khiin/dictgen/pkg/loji"
)

// ParseFrequency reads a frequency CSV with columns input, freq, chhan_id.
// The result is sorted by FrequencyLess and deduplicated by input.
func ParseFrequency(r io.Reader, name string, opts Options) ([]FrequencyEntry, error) {
	t, err := readTable(r, name, ',', "input", "freq", "chhan_id")
	if err != nil {
		return nil, err
	}

	entries := make([]FrequencyEntry, 0, len(t.rows))
	for _, rw := range t.rows {
		input, err := t.str(rw, "input")
		if err != nil {
			return nil, err
		}
		freq, err := t.integer(rw, "freq")
		if err != nil {
			return nil, err
		}
		chhanID, err := t.integer(rw, "chhan_id")
		if err != nil {
			return nil, err
		}
		if opts.ExcludeZeros && freq == 0 {
			continue
		}
		entries = append(entries, FrequencyEntry{
			Input:   loji.Key(input, opts.Style),
			Freq:    freq,
			ChhanID: chhanID,
		})
	}

	SortFrequency(entries)
	return DedupeFrequency(entries), nil
}

// ParseConversions reads a conversion CSV with columns input, output, weight
// and the optional category and annotation. The result is sorted by
// ConversionCompare and deduplicated by (input, output).
func ParseConversions(r io.Reader, name string, opts Options) ([]ConversionEntry, error) {
	t, err := readTable(r, name, ',', "input", "output", "weight")
	if err != nil {
		return nil, err
	}

	entries := make([]ConversionEntry, 0, len(t.rows))
	for _, rw := range t.rows {
		input, err := t.str(rw, "input")
		if err != nil {
			return nil, err
		}
		output, err := t.str(rw, "output")
		if err != nil {
			return nil, err
		}
		weight, err := t.integer(rw, "weight")
		if err != nil {
			return nil, err
		}
		category, err := t.optInt(rw, "category")
		if err != nil {
			return nil, err
		}
		annotation := t.opt(rw, "annotation")
		if opts.Reweight != nil {
			weight = opts.Reweight(output, weight)
		}
		entries = append(entries, ConversionEntry{
			Input:      loji.Key(input, opts.Style),
			Output:     output,
			Weight:     weight,
			Category:   category,
			Annotation: annotation,
		})
	}

	SortConversions(entries, opts.collator())
	return DedupeConversions(entries), nil
}

// ParseSyllables reads one syllable per line. Trailing whitespace is
// trimmed and blank lines are skipped; the result is deduplicated and in
// collation order.
func ParseSyllables(r io.Reader, name string, opts Options) ([]string, error) {
	var syls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimRight(sc.Text(), " \t\r\n")
		if s == "" {
			continue
		}
		syls = append(syls, s)
	}
	if err := sc.Err(); err != nil {
		return nil, &MalformedInputError{File: name, Reason: err.Error()}
	}
	return DedupeSyllables(syls, opts.collator()), nil
}

// ParseSymbols reads a tab-separated symbols table with columns input,
// output and category. Rows keep file order.
func ParseSymbols(r io.Reader, name string) ([]SymbolEntry, error) {
	t, err := readTable(r, name, '\t', "input", "output", "category")
	if err != nil {
		return nil, err
	}
	out := make([]SymbolEntry, 0, len(t.rows))
	for _, rw := range t.rows {
		input, err := t.str(rw, "input")
		if err != nil {
			return nil, err
		}
		output, err := t.str(rw, "output")
		if err != nil {
			return nil, err
		}
		category, err := t.optInt(rw, "category")
		if err != nil {
			return nil, err
		}
		out = append(out, SymbolEntry{Input: input, Output: output, Category: category})
	}
	return out, nil
}

// ParseEmoji reads the emoji CSV with columns id, emoji, short_name,
// category and code. Rows keep file order.
func ParseEmoji(r io.Reader, name string) ([]EmojiEntry, error) {
	t, err := readTable(r, name, ',', "id", "emoji", "short_name", "category", "code")
	if err != nil {
		return nil, err
	}
	out := make([]EmojiEntry, 0, len(t.rows))
	for _, rw := range t.rows {
		var e EmojiEntry
		if e.ID, err = t.integer(rw, "id"); err != nil {
			return nil, err
		}
		if e.Emoji, err = t.str(rw, "emoji"); err != nil {
			return nil, err
		}
		if e.ShortName, err = t.str(rw, "short_name"); err != nil {
			return nil, err
		}
		if e.Category, err = t.integer(rw, "category"); err != nil {
			return nil, err
		}
		if e.Code, err = t.str(rw, "code"); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// LoadFrequency opens path and parses it with ParseFrequency.
func LoadFrequency(path string, opts Options) ([]FrequencyEntry, error) {
	f, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseFrequency(f, path, opts)
}

// LoadConversions opens path and parses it with ParseConversions.
func LoadConversions(path string, opts Options) ([]ConversionEntry, error) {
	f, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseConversions(f, path, opts)
}

// LoadSyllables opens path and parses it with ParseSyllables. An empty
// path yields no syllables.
func LoadSyllables(path string, opts Options) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSyllables(f, path, opts)
}

// LoadSymbols opens path and parses it with ParseSymbols.
func LoadSymbols(path string) ([]SymbolEntry, error) {
	f, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSymbols(f, path)
}

// LoadEmoji opens path and parses it with ParseEmoji.
func LoadEmoji(path string) ([]EmojiEntry, error) {
	f, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseEmoji(f, path)
}
