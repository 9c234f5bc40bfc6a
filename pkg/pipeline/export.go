package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/khiin/dictgen/pkg/dataset"
	"github.com/khiin/dictgen/pkg/fhl"
)

// ExportConfig selects the input database and outputs of a word-list export.
type ExportConfig struct {
	InputDB   string
	OutputDB  string // optional
	CINPath   string // optional
	HanjiOnly bool
}

// Export reads a built dictionary database and writes the flattened
// word-list database and/or .cin file. It returns the number of words.
func Export(ctx context.Context, cfg ExportConfig, now time.Time) (int, error) {
	if cfg.InputDB == "" {
		return 0, errors.New("input database is required")
	}
	if cfg.OutputDB == "" && cfg.CINPath == "" {
		return 0, errors.New("nothing to write: set an output database or a .cin path")
	}

	words, err := fhl.Load(ctx, cfg.InputDB, fhl.Options{HanjiOnly: cfg.HanjiOnly})
	if err != nil {
		return 0, err
	}

	if cfg.OutputDB != "" {
		if err := ensureDir(cfg.OutputDB); err != nil {
			return 0, err
		}
		if err := fhl.BuildDatabase(ctx, cfg.OutputDB, words, now); err != nil {
			return 0, fmt.Errorf("build word list %s: %w", cfg.OutputDB, err)
		}
	}

	if cfg.CINPath != "" {
		if err := writeCIN(cfg.CINPath, words); err != nil {
			return 0, err
		}
	}
	return len(words), nil
}

func writeCIN(path string, words []dataset.WordListEntry) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fhl.WriteCIN(f, words); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
