package main

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
)

// newSpinner returns a progress callback that redraws a one-character
// spinner in place.
func newSpinner(w io.Writer) func(done, total int) {
	frames := []byte{'-', '/', '|', '\\'}
	i := 0
	return func(done, total int) {
		fmt.Fprintf(w, "%c\b", frames[i%len(frames)])
		i++
	}
}

func parseLocale(s string) (language.Tag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", s, err)
	}
	return tag, nil
}
