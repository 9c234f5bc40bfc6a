package loji

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator compares strings in locale order. It is passed explicitly into
// every sort so that no process-wide locale state is needed.
// A Collator is not safe for concurrent use.
type Collator struct {
	tag language.Tag
	c   *collate.Collator
}

// NewCollator returns a collator for the given locale.
func NewCollator(tag language.Tag) *Collator {
	return &Collator{tag: tag, c: collate.New(tag)}
}

// Tag returns the locale the collator was built for.
func (c *Collator) Tag() language.Tag { return c.tag }

// Collate returns the locale comparison alone; distinct strings may
// compare equal.
func (c *Collator) Collate(a, b string) int { return c.c.CompareString(a, b) }

// Compare returns -1, 0 or 1. Strings the locale treats as equal are
// ordered bytewise so the result is a total order.
func (c *Collator) Compare(a, b string) int {
	if r := c.Collate(a, b); r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

// Less reports whether a sorts before b.
func (c *Collator) Less(a, b string) bool { return c.Compare(a, b) < 0 }

// LocaleFromEnv derives a locale from the POSIX environment variables
// LC_ALL, LC_COLLATE and LANG, in that order. Values such as "C", "POSIX"
// or unparsable tags are skipped; the fallback is the root locale.
func LocaleFromEnv(getenv func(string) string) language.Tag {
	for _, name := range []string{"LC_ALL", "LC_COLLATE", "LANG"} {
		if tag, ok := parsePOSIXLocale(getenv(name)); ok {
			return tag
		}
	}
	return language.Und
}

// parsePOSIXLocale turns "en_US.UTF-8" or "nan_TW@latin" into a BCP 47 tag.
func parsePOSIXLocale(v string) (language.Tag, bool) {
	v = strings.TrimSpace(v)
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "C" || v == "POSIX" {
		return language.Und, false
	}
	tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
