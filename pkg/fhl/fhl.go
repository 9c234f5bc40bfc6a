// Package fhl exports a built dictionary as a flattened word list: a
// words/qstring SQLite database and a .cin character definition file.
package fhl

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/khiin/dictgen/pkg/dataset"
	"github.com/khiin/dictgen/pkg/db"
	"github.com/khiin/dictgen/pkg/loji"
)

// Options control word list derivation.
type Options struct {
	// HanjiOnly drops candidates that contain any Latin letter. Off by
	// default: romanized candidates are part of the word list.
	HanjiOnly bool
}

type wordKey struct{ qstring, value string }

// WordList flattens joined conversions into word list entries, keeping the
// first entry for each (qstring, value) pair.
func WordList(rows []db.JoinedConversion, opts Options) []dataset.WordListEntry {
	words := make([]dataset.WordListEntry, 0, len(rows))
	for _, r := range rows {
		if opts.HanjiOnly && loji.HasNonHanji(r.Output) {
			continue
		}
		words = append(words, dataset.WordListEntry{
			Reading: loji.Reading(r.Input),
			QString: loji.QString(r.Input),
			Value:   r.Output,
		})
	}
	return dataset.Dedupe(words, func(w dataset.WordListEntry) wordKey {
		return wordKey{w.QString, w.Value}
	})
}

// FromBundle derives the word list directly from cross-referenced data,
// in frequency order and then conversion order.
func FromBundle(b dataset.Bundle, opts Options) []dataset.WordListEntry {
	byInput := make(map[string][]dataset.ConversionEntry, len(b.Frequency))
	for _, c := range b.Conversions {
		byInput[c.Input] = append(byInput[c.Input], c)
	}
	var rows []db.JoinedConversion
	for _, f := range b.Frequency {
		for _, c := range byInput[f.Input] {
			rows = append(rows, db.JoinedConversion{Input: f.Input, Output: c.Output})
		}
	}
	return WordList(rows, opts)
}

// Load reads the word list from a dictionary database built by sqlgen.
func Load(ctx context.Context, path string, opts Options) ([]dataset.WordListEntry, error) {
	conn, err := db.OpenExisting(path)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := db.QueryJoined(ctx, conn)
	if err != nil {
		return nil, err
	}
	return WordList(rows, opts), nil
}

// CookedInfo returns the cooked_information rows for a build at now.
func CookedInfo(now time.Time) [][2]string {
	utc := now.UTC()
	return [][2]string{
		{"version_timestamp", utc.Format("20060102")},
		{"cooked_timestamp_utc", fmt.Sprintf("%.1f", float64(utc.UnixMilli())/1000)},
		{"cooked_datetime_utc", utc.Format("2006-01-02 15:04 UTC")},
	}
}

// BuildDatabase writes the word list into the SQLite file at path. Word ids
// follow list order starting at 1, and every word has probability 1.
func BuildDatabase(ctx context.Context, path string, words []dataset.WordListEntry, now time.Time) error {
	conn, err := db.Open(path)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.InitSchema(conn, db.WordListSchema); err != nil {
		return err
	}

	bw := db.NewBatchWriter(conn, 1000)
	for _, kv := range CookedInfo(now) {
		key, value := kv[0], kv[1]
		if err := bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
			return db.InsertCookedInfo(tx, key, value)
		}); err != nil {
			return err
		}
	}

	for i, w := range words {
		id := int64(i + 1)
		w := w
		if err := bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
			if err := db.InsertWord(tx, db.Word{ID: id, Reading: w.Reading, Value: w.Value, Probability: 1}); err != nil {
				return err
			}
			return db.InsertQStringMapping(tx, w.QString, id)
		}); err != nil {
			return err
		}
	}
	return bw.Close(ctx)
}
