package loji

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// KeyStyle selects how tone diacritics are represented in dictionary keys.
type KeyStyle int

const (
	// ASCII maps tone marks to trailing digits (e.g. "kám" -> "kam2").
	ASCII KeyStyle = iota
	// Unicode keeps the diacritics in NFC form. U+0358 (o͘) and U+030D
	// (tone 8) have no precomposed forms, so keys in this style may
	// still contain those two combining marks. Only ASCII keys are
	// guaranteed free of combining marks.
	Unicode
)

func (k KeyStyle) String() string {
	switch k {
	case ASCII:
		return "ascii"
	case Unicode:
		return "unicode"
	}
	return fmt.Sprintf("KeyStyle(%d)", int(k))
}

// ParseKeyStyle parses "ascii" or "unicode".
func ParseKeyStyle(s string) (KeyStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ascii":
		return ASCII, nil
	case "unicode":
		return Unicode, nil
	}
	return ASCII, fmt.Errorf("unknown key style %q (want ascii or unicode)", s)
}

// hanjiThreshold is the first code point of the CJK Radicals Supplement block.
// Everything above it is treated as logographic.
const hanjiThreshold = 0x2E80

// toneMarks maps the decomposed POJ marks to their ASCII spelling.
var toneMarks = strings.NewReplacer(
	"\u207F", "nn", // superscript n, nasalization
	"\u0358", "u", // dot above right, as in o͘
	"\u0301", "2",
	"\u0300", "3",
	"\u0302", "5",
	"\u0304", "7",
	"\u030D", "8",
	"\u0306", "9",
	"\u0324", "r",
)

// kipSubs are applied in order; later rules see the output of earlier ones.
var kipSubs = [][2]string{
	{"ch", "ts"},
	{"oa", "ua"},
	{"oe", "ue"},
	{"ou", "oo"},
	{"eng", "ing"},
	{"ek", "ik"},
}

var (
	reMidDigit = regexp.MustCompile(`([A-Za-z]+)(\d)([A-Za-z]+)`)
	reHasAlpha = regexp.MustCompile(`[A-Za-z]`)
)

func isMiddleDot(r rune) bool { return r == '·' }

func isToneMark(r rune) bool { return r >= 0x0300 && r <= 0x030D }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// apply runs t over s. The transformers used here never fail on valid UTF-8,
// and invalid bytes are passed through as U+FFFD.
func apply(t transform.Transformer, s string) string {
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// ToASCII converts POJ with tone diacritics into its ASCII form with tone
// digits: marks become digits or letters, a digit stranded between two
// letter runs moves to the end of the second run, and the result is
// lowercased. Unknown combining marks are dropped.
func ToASCII(text string) string {
	text = norm.NFD.String(text)
	text = toneMarks.Replace(text)
	text = apply(transform.Chain(runes.Remove(runes.In(unicode.Mn)), norm.NFC), text)
	text = reMidDigit.ReplaceAllString(text, "${1}${3}${2}")
	return strings.ToLower(text)
}

// Key returns the canonical dictionary key for a raw input string: hyphens
// become spaces, middle dots are removed and the tones are rendered in the
// given style. Empty and whitespace-only strings pass through.
func Key(text string, style KeyStyle) string {
	cleaner := transform.Chain(
		norm.NFD,
		runes.Map(func(r rune) rune {
			if r == '-' {
				return ' '
			}
			return r
		}),
		runes.Remove(runes.Predicate(isMiddleDot)),
	)
	text = apply(cleaner, text)
	if style == Unicode {
		return norm.NFC.String(strings.ToLower(text))
	}
	return ToASCII(text)
}

// StripTones removes tone information from a single key in the given style.
func StripTones(text string, style KeyStyle) string {
	if style == Unicode {
		return apply(transform.Chain(norm.NFD, runes.Remove(runes.Predicate(isToneMark)), norm.NFC), text)
	}
	return strings.Map(func(r rune) rune {
		if isDigit(r) {
			return -1
		}
		return r
	}, text)
}

// QString returns the compact lookup key. Multi-word inputs lose their tone
// digits and separators; single syllables keep the digit.
func QString(text string) string {
	text = ToASCII(text)
	if strings.Contains(text, " ") {
		text = strings.Map(func(r rune) rune {
			if isDigit(r) || r == ' ' {
				return -1
			}
			return r
		}, text)
	}
	return text
}

// Reading returns the hyphenated display reading in KIP-style spelling.
func Reading(text string) string {
	text = ToASCII(text)
	for _, sub := range kipSubs {
		text = strings.ReplaceAll(text, sub[0], sub[1])
	}
	return strings.ReplaceAll(text, " ", "-")
}

// HasHanji reports whether any rune of s is logographic.
func HasHanji(s string) bool {
	for _, r := range s {
		if r > hanjiThreshold {
			return true
		}
	}
	return false
}

// HasNonHanji reports whether s contains any Latin letter once decomposed.
func HasNonHanji(s string) bool {
	return reHasAlpha.MatchString(norm.NFD.String(s))
}
