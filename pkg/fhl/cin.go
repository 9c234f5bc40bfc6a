package fhl

import (
	"bufio"
	"io"
	"strings"

	"github.com/khiin/dictgen/pkg/dataset"
)

const cinHeader = `%ename chailaiji:en;
%ename 台語
%selkey 123456789
%keyname begin
`

const cinKeys = "abcdefghijklmnopqrstuvwxyz123456789"

// WriteCIN writes the word list as a .cin table: a fixed header naming the
// selection and input keys, then one "<qstring> <value>" line per distinct
// pair between %chardef begin and %chardef end. Spaces inside a value are
// written as hyphens.
func WriteCIN(w io.Writer, words []dataset.WordListEntry) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(cinHeader)
	for _, k := range cinKeys {
		bw.WriteRune(k)
		bw.WriteByte(' ')
		bw.WriteRune(k)
		bw.WriteByte('\n')
	}
	bw.WriteString("%keyname end\n%chardef begin\n")

	seen := dataset.NewOrderedSet[wordKey](len(words))
	for _, word := range words {
		val := strings.ReplaceAll(word.Value, " ", "-")
		if !seen.Add(wordKey{word.QString, val}) {
			continue
		}
		bw.WriteString(word.QString)
		bw.WriteByte(' ')
		bw.WriteString(val)
		bw.WriteByte('\n')
	}
	bw.WriteString("%chardef end")
	return bw.Flush()
}
