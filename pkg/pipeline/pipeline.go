package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"

	"github.com/khiin/dictgen/pkg/crossref"
	"github.com/khiin/dictgen/pkg/dataset"
	"github.com/khiin/dictgen/pkg/fhl"
	"github.com/khiin/dictgen/pkg/loji"
	"github.com/khiin/dictgen/pkg/sqlgen"
)

// Config selects the sources and outputs of a dictionary build.
type Config struct {
	FrequencyPath  string
	ConversionPath string
	SyllablePath   string // optional
	SymbolPath     string // optional
	EmojiPath      string // optional

	OutputPath string // SQL script
	DBPath     string // optional SQLite database
	CINPath    string // optional .cin word list

	ExcludeZeros bool
	HanjiFirst   bool

	Locale   language.Tag
	KeyStyle loji.KeyStyle
}

// Validate checks that the required paths are set.
func (c Config) Validate() error {
	var errs []error
	if c.FrequencyPath == "" {
		errs = append(errs, errors.New("frequency list is required"))
	}
	if c.ConversionPath == "" {
		errs = append(errs, errors.New("conversion list is required"))
	}
	if c.OutputPath == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	return errors.Join(errs...)
}

// Stats summarizes what a run wrote.
type Stats struct {
	Inputs    int // rows in the frequency table
	Tokens    int // rows in the conversions table
	Syllables int
	Symbols   int
	Emoji     int
	Words     int // lines in the .cin file
}

// Runner executes one build.
type Runner struct {
	Config Config
	// Logger is used for informational messages. nil means no logging.
	Logger *log.Logger
	// OnProgress is called while the database is being written.
	OnProgress func(done, total int)
	// Now returns the build time recorded in the version table.
	Now func() time.Time
}

// NewRunner creates a Runner for cfg.
func NewRunner(cfg Config) *Runner {
	return &Runner{Config: cfg, Now: time.Now}
}

func (r *Runner) logf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

// Load reads every source and cross-references the dictionary.
func (r *Runner) Load() (dataset.Bundle, error) {
	cfg := r.Config
	coll := loji.NewCollator(cfg.Locale)
	r.logf("collating with locale %s", coll.Tag())
	opts := dataset.Options{
		Style:        cfg.KeyStyle,
		Collator:     coll,
		ExcludeZeros: cfg.ExcludeZeros,
	}
	if cfg.HanjiFirst {
		opts.Reweight = crossref.HanjiFirstWeight
	}

	freq, err := dataset.LoadFrequency(cfg.FrequencyPath, opts)
	if err != nil {
		return dataset.Bundle{}, err
	}
	r.logf("loaded %d frequency rows from %s", len(freq), cfg.FrequencyPath)

	conv, err := dataset.LoadConversions(cfg.ConversionPath, opts)
	if err != nil {
		return dataset.Bundle{}, err
	}
	r.logf("loaded %d conversion rows from %s", len(conv), cfg.ConversionPath)

	syls, err := dataset.LoadSyllables(cfg.SyllablePath, opts)
	if err != nil {
		return dataset.Bundle{}, err
	}

	res := crossref.Run(freq, conv, syls, cfg.KeyStyle, coll)
	r.logf("kept %d inputs and %d conversions after cross-referencing", len(res.Frequency), len(res.Conversions))

	b := dataset.Bundle{
		Frequency:   res.Frequency,
		Conversions: res.Conversions,
		Syllables:   res.Syllables,
	}
	if cfg.SymbolPath != "" {
		if b.Symbols, err = dataset.LoadSymbols(cfg.SymbolPath); err != nil {
			return dataset.Bundle{}, err
		}
	}
	if cfg.EmojiPath != "" {
		if b.Emoji, err = dataset.LoadEmoji(cfg.EmojiPath); err != nil {
			return dataset.Bundle{}, err
		}
	}
	return b, nil
}

// Run loads the sources, writes the SQL script and, when configured, the
// SQLite database.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	if err := r.Config.Validate(); err != nil {
		return Stats{}, err
	}

	b, err := r.Load()
	if err != nil {
		return Stats{}, err
	}
	meta := sqlgen.Metadata{Built: r.now()}

	if err := writeScript(r.Config.OutputPath, b, meta); err != nil {
		return Stats{}, err
	}
	r.logf("wrote SQL script to %s", r.Config.OutputPath)

	if r.Config.DBPath != "" {
		err := sqlgen.BuildDatabase(ctx, r.Config.DBPath, b, meta, sqlgen.BuildOptions{OnProgress: r.OnProgress})
		if err != nil {
			return Stats{}, fmt.Errorf("build database %s: %w", r.Config.DBPath, err)
		}
		r.logf("built database %s", r.Config.DBPath)
	}

	stats := Stats{
		Inputs:    len(b.Frequency),
		Tokens:    len(b.Conversions),
		Syllables: len(b.Syllables),
		Symbols:   len(b.Symbols),
		Emoji:     len(b.Emoji),
	}
	if r.Config.CINPath != "" {
		words := fhl.FromBundle(b, fhl.Options{})
		if err := writeCIN(r.Config.CINPath, words); err != nil {
			return Stats{}, err
		}
		stats.Words = len(words)
		r.logf("wrote %d words to %s", len(words), r.Config.CINPath)
	}
	return stats, nil
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// writeScript renders to a temporary file next to path and renames it into
// place, so a failed run leaves no partial script.
func writeScript(path string, b dataset.Bundle, meta sqlgen.Metadata) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create script: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := sqlgen.WriteScript(tmp, b, meta); err != nil {
		tmp.Close()
		return fmt.Errorf("write script: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
