package sqlgen

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/khiin/dictgen/pkg/dataset"
	"github.com/khiin/dictgen/pkg/db"
)

// Metadata describes the build recorded in the version table.
type Metadata struct {
	Built time.Time
}

// Rows returns the version table contents: a compact date stamp and a
// human-readable UTC time.
func (m Metadata) Rows() [][2]string {
	t := m.Built.UTC()
	return [][2]string{
		{"version_timestamp", t.Format("20060102")},
		{"build_datetime_utc", t.Format("2006-01-02 15:04 UTC")},
	}
}

// scriptWriter keeps the first write error so rendering code can stay linear.
type scriptWriter struct {
	w   *bufio.Writer
	err error
}

func (sw *scriptWriter) print(parts ...string) {
	if sw.err != nil {
		return
	}
	for _, p := range parts {
		if _, err := sw.w.WriteString(p); err != nil {
			sw.err = err
			return
		}
	}
}

// values writes a multi-row INSERT. Nothing is written for zero rows.
func (sw *scriptWriter) values(table string, columns []string, rows []string) {
	if len(rows) == 0 {
		return
	}
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = Ident(c)
	}
	sw.print("INSERT INTO ", Ident(table), " (", strings.Join(cols, ", "), ") VALUES\n")
	sw.print(strings.Join(rows, ",\n"), ";\n")
}

// WriteScript renders the whole dictionary as one SQL transaction: the
// schema, the version rows, then the frequency, conversion and syllable
// inserts, followed by any side tables in the bundle.
func WriteScript(w io.Writer, b dataset.Bundle, meta Metadata) error {
	sw := &scriptWriter{w: bufio.NewWriter(w)}

	sw.print("BEGIN TRANSACTION;\n")
	sw.print(db.DictionarySchema, "\n")

	var rows []string
	for _, kv := range meta.Rows() {
		rows = append(rows, "("+Quote(kv[0])+", "+Quote(kv[1])+")")
	}
	sw.values("version", []string{"key", "value"}, rows)

	rows = rows[:0]
	for _, e := range b.Frequency {
		rows = append(rows, "("+Quote(e.Input)+", "+Int(e.Freq)+", "+Int(e.ChhanID)+")")
	}
	sw.values("frequency", []string{"input", "freq", "chhan_id"}, rows)

	for _, e := range b.Conversions {
		sw.print(conversionSQL(e), "\n")
	}

	rows = rows[:0]
	for _, s := range b.Syllables {
		rows = append(rows, "("+Quote(s)+")")
	}
	sw.values("syllables", []string{"input"}, rows)

	if b.Symbols != nil {
		sw.print(db.SymbolsSchema, "\n")
		rows = rows[:0]
		for _, e := range b.Symbols {
			rows = append(rows, "("+Quote(e.Input)+", "+Quote(e.Output)+", "+NullableInt(e.Category)+")")
		}
		sw.values("symbols", []string{"input", "output", "category"}, rows)
	}

	if b.Emoji != nil {
		sw.print(db.EmojiSchema, "\n")
		rows = rows[:0]
		for _, e := range b.Emoji {
			rows = append(rows, fmt.Sprintf("(%d, %s, %s, %d, %s)",
				e.ID, Quote(e.Emoji), Quote(e.ShortName), e.Category, Quote(e.Code)))
		}
		sw.values("emoji", []string{"id", "emoji", "short_name", "category", "code"}, rows)
	}

	sw.print("COMMIT;\n")
	if sw.err != nil {
		return sw.err
	}
	return sw.w.Flush()
}

// conversionSQL resolves input_id through the frequency table, so the
// statement only inserts when the input exists there.
func conversionSQL(e dataset.ConversionEntry) string {
	return `INSERT INTO "conversions" ("input_id", "output", "weight", "category", "annotation") SELECT "id", ` +
		Quote(e.Output) + ", " + Int(e.Weight) + ", " + NullableInt(e.Category) + ", " + NullableString(e.Annotation) +
		` FROM "frequency" WHERE "input" = ` + Quote(e.Input) + ";"
}
