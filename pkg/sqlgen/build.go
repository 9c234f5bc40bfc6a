package sqlgen

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/khiin/dictgen/pkg/dataset"
	"github.com/khiin/dictgen/pkg/db"
)

// BuildOptions tune the direct database build.
type BuildOptions struct {
	// BatchSize is the number of rows committed per transaction.
	BatchSize int
	// OnProgress is called after each committed batch.
	OnProgress func(done, total int)
}

// BuildDatabase writes the bundle into the SQLite file at path using
// parameterized statements, then compacts the file. Existing dictionary
// tables in the file are dropped and rebuilt.
func BuildDatabase(ctx context.Context, path string, b dataset.Bundle, meta Metadata, opts BuildOptions) error {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}

	conn, err := db.Open(path)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.InitSchema(conn, db.DictionarySchema); err != nil {
		return err
	}
	if b.Symbols != nil {
		if err := db.InitSchema(conn, db.SymbolsSchema); err != nil {
			return err
		}
	}
	if b.Emoji != nil {
		if err := db.InitSchema(conn, db.EmojiSchema); err != nil {
			return err
		}
	}

	metaRows := meta.Rows()
	total := len(metaRows) + len(b.Frequency) + len(b.Conversions) + len(b.Syllables) + len(b.Symbols) + len(b.Emoji)
	bw := db.NewBatchWriter(conn, opts.BatchSize)
	if opts.OnProgress != nil {
		bw.OnFlush = func(written int) { opts.OnProgress(written, total) }
	}

	for _, kv := range metaRows {
		key, value := kv[0], kv[1]
		if err := bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
			return db.InsertVersion(tx, key, value)
		}); err != nil {
			return err
		}
	}

	ids := make(map[string]int64, len(b.Frequency))
	for _, e := range b.Frequency {
		e := e
		if err := bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
			id, err := db.InsertFrequency(tx, e)
			if err != nil {
				return err
			}
			ids[e.Input] = id
			return nil
		}); err != nil {
			return err
		}
	}
	// Conversion rows need the frequency ids assigned above.
	if err := bw.Flush(ctx); err != nil {
		return err
	}

	for _, e := range b.Conversions {
		e := e
		id, ok := ids[e.Input]
		if !ok {
			return fmt.Errorf("conversion %q -> %q has no frequency row", e.Input, e.Output)
		}
		if err := bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
			return db.InsertConversion(tx, id, e)
		}); err != nil {
			return err
		}
	}

	for _, s := range b.Syllables {
		s := s
		if err := bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
			return db.InsertSyllable(tx, s)
		}); err != nil {
			return err
		}
	}

	for _, e := range b.Symbols {
		e := e
		if err := bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
			return db.InsertSymbol(tx, e)
		}); err != nil {
			return err
		}
	}

	for _, e := range b.Emoji {
		e := e
		if err := bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
			return db.InsertEmoji(tx, e)
		}); err != nil {
			return err
		}
	}

	if err := bw.Close(ctx); err != nil {
		return err
	}
	return db.Vacuum(conn)
}
