package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/khiin/dictgen/pkg/dataset"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// isUniqueConstraintErr returns true when the error indicates a unique/constraint violation
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique constraint failed")
}

// keyErr maps a unique violation on table to a DuplicateKeyError.
func keyErr(table, key string, err error) error {
	if isUniqueConstraintErr(err) {
		return &dataset.DuplicateKeyError{Table: table, Key: key, Err: err}
	}
	return fmt.Errorf("insert %s %q: %w", table, key, err)
}

// nullableInt returns nil for a missing value.
func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// nullableString returns nil for an empty string.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// InsertFrequency inserts a frequency row and returns its id.
func InsertFrequency(db DBExecutor, e dataset.FrequencyEntry) (int64, error) {
	res, err := db.Exec(`INSERT INTO "frequency" ("input", "freq", "chhan_id") VALUES (?, ?, ?)`,
		e.Input, e.Freq, e.ChhanID)
	if err != nil {
		return 0, keyErr("frequency", e.Input, err)
	}
	return res.LastInsertId()
}

// InsertConversion inserts a conversion row pointing at the frequency row inputID.
func InsertConversion(db DBExecutor, inputID int64, e dataset.ConversionEntry) error {
	if inputID <= 0 {
		return fmt.Errorf("inputID must be positive")
	}
	_, err := db.Exec(`INSERT INTO "conversions" ("input_id", "output", "weight", "category", "annotation") VALUES (?, ?, ?, ?, ?)`,
		inputID, e.Output, e.Weight, nullableInt(e.Category), nullableString(e.Annotation))
	if err != nil {
		return keyErr("conversions", e.Input+" -> "+e.Output, err)
	}
	return nil
}

// InsertSyllable inserts one syllable.
func InsertSyllable(db DBExecutor, syl string) error {
	if _, err := db.Exec(`INSERT INTO "syllables" ("input") VALUES (?)`, syl); err != nil {
		return keyErr("syllables", syl, err)
	}
	return nil
}

// InsertVersion records a metadata key/value pair.
func InsertVersion(db DBExecutor, key, value string) error {
	if _, err := db.Exec(`INSERT INTO "version" ("key", "value") VALUES (?, ?)`, key, value); err != nil {
		return keyErr("version", key, err)
	}
	return nil
}

// InsertSymbol inserts a row of the symbols side table.
func InsertSymbol(db DBExecutor, e dataset.SymbolEntry) error {
	_, err := db.Exec(`INSERT INTO "symbols" ("input", "output", "category") VALUES (?, ?, ?)`,
		e.Input, e.Output, nullableInt(e.Category))
	if err != nil {
		return fmt.Errorf("insert symbol %q: %w", e.Input, err)
	}
	return nil
}

// InsertEmoji inserts a row of the emoji side table.
func InsertEmoji(db DBExecutor, e dataset.EmojiEntry) error {
	_, err := db.Exec(`INSERT INTO "emoji" ("id", "emoji", "short_name", "category", "code") VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Emoji, e.ShortName, e.Category, e.Code)
	if err != nil {
		return keyErr("emoji", fmt.Sprint(e.ID), err)
	}
	return nil
}

// InsertWord inserts a row of the flattened word list.
func InsertWord(db DBExecutor, w Word) error {
	if w.ID <= 0 {
		return fmt.Errorf("word id must be positive")
	}
	if _, err := db.Exec(`INSERT INTO words VALUES (?, ?, ?, ?)`, w.ID, w.Reading, w.Value, w.Probability); err != nil {
		return keyErr("words", fmt.Sprint(w.ID), err)
	}
	return nil
}

// InsertQStringMapping maps a compact key to a word id.
func InsertQStringMapping(db DBExecutor, qstring string, wordID int64) error {
	_, err := db.Exec(`INSERT INTO qstring_word_mappings VALUES (?, ?)`, qstring, wordID)
	return err
}

// InsertCookedInfo records a key/value pair in cooked_information.
func InsertCookedInfo(db DBExecutor, key, value string) error {
	_, err := db.Exec(`INSERT INTO cooked_information VALUES (?, ?)`, key, value)
	return err
}

// QueryJoined returns every conversion with its frequency input, in
// frequency id order and then conversion id order.
func QueryJoined(ctx context.Context, conn *sql.DB) ([]JoinedConversion, error) {
	rows, err := conn.QueryContext(ctx, `SELECT f."input", c."output"
		FROM "frequency" f JOIN "conversions" c ON c."input_id" = f."id"
		ORDER BY f."id", c."id"`)
	if err != nil {
		return nil, fmt.Errorf("query conversions: %w", err)
	}
	defer rows.Close()

	var out []JoinedConversion
	for rows.Next() {
		var j JoinedConversion
		if err := rows.Scan(&j.Input, &j.Output); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of rows in table. The name is quoted but not
// otherwise checked; callers pass constants.
func Count(db DBExecutor, table string) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM "` + strings.ReplaceAll(table, `"`, `""`) + `"`).Scan(&n)
	return n, err
}
