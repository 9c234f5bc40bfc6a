package db

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/khiin/dictgen/pkg/dataset"
)

var (
	// DictionarySchema drops and recreates the frequency, conversions,
	// syllables, version and n-gram tables.
	//go:embed schema/dictionary.sql
	DictionarySchema string

	// SymbolsSchema drops and recreates the symbols side table.
	//go:embed schema/symbols.sql
	SymbolsSchema string

	// EmojiSchema drops and recreates the emoji side table.
	//go:embed schema/emoji.sql
	EmojiSchema string

	// WordListSchema drops and recreates the flattened word-list tables.
	//go:embed schema/wordlist.sql
	WordListSchema string
)

// Statements splits a DDL script into its individual statements.
func Statements(ddl string) []string {
	var out []string
	for _, s := range strings.Split(ddl, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// InitSchema executes every statement of the given DDL script.
func InitSchema(db DBExecutor, ddl string) error {
	for _, s := range Statements(ddl) {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Open opens (creating if needed) the SQLite file at path. The pool is
// limited to one connection so ":memory:" databases behave as one database.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return conn, nil
}

// OpenExisting opens an existing SQLite file read-only.
func OpenExisting(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &dataset.SourceNotFoundError{Path: path, Err: err}
		}
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}
	return Open(u.String())
}

// Vacuum rebuilds the database file to reclaim free pages. It must not run
// inside a transaction.
func Vacuum(conn *sql.DB) error {
	if _, err := conn.Exec("VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}
