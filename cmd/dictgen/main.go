package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/khiin/dictgen/pkg/loji"
	"github.com/khiin/dictgen/pkg/pipeline"
)

const buildLong = `Build an SQLite database for the Khiin IME

- The frequencies CSV must have columns: input, freq, chhan_id
- The conversions CSV must have columns: input, output, weight
- The syllable list TXT file is optional, and should include
  one syllable per line (without tones)

All input columns are automatically normalized into lower case,
space-separated syllables.

All data files are automatically deduplicated.`

func main() {
	log.SetFlags(0)

	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := &cobra.Command{
		Use:          "dictgen",
		Short:        "Build Khiin IME dictionary databases from CSV sources",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	rootCmd.AddCommand(newBuildCmd(), newFHLCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		_, _ = errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newBuildCmd() *cobra.Command {
	var (
		cfg      pipeline.Config
		locale   string
		keyStyle string
	)

	cmd := &cobra.Command{
		Use:     "build",
		Short:   "Build the SQL script (and optionally the database) from CSV sources",
		Long:    buildLong,
		Example: `  dictgen build -f frequency.csv -c conversions.csv -s syllables.txt -o khiin.sql -d khiin.db -x -j`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			style, err := loji.ParseKeyStyle(keyStyle)
			if err != nil {
				return err
			}
			cfg.KeyStyle = style
			cfg.Locale = loji.LocaleFromEnv(os.Getenv)
			if locale != "" {
				if cfg.Locale, err = parseLocale(locale); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			r := pipeline.NewRunner(cfg)
			r.Logger = log.New(os.Stderr, "", 0)
			if cfg.DBPath != "" {
				fmt.Print("Building database, please wait... ")
				r.OnProgress = newSpinner(os.Stdout)
			}
			stats, err := r.Run(cmd.Context())
			if cfg.DBPath != "" {
				fmt.Println()
			}
			if err != nil {
				return err
			}

			fmt.Printf("Output written to %s:\n", cfg.OutputPath)
			fmt.Printf(" - %d inputs (\"frequency\" table)\n", stats.Inputs)
			fmt.Printf(" - %d tokens (\"conversions\" table)\n", stats.Tokens)
			fmt.Printf(" - %d syllables (\"syllables\" table)\n", stats.Syllables)
			if cfg.SymbolPath != "" {
				fmt.Printf(" - %d symbols (\"symbols\" table)\n", stats.Symbols)
			}
			if cfg.EmojiPath != "" {
				fmt.Printf(" - %d emoji (\"emoji\" table)\n", stats.Emoji)
			}
			if cfg.CINPath != "" {
				fmt.Printf(" - %d words written to %s\n", stats.Words, cfg.CINPath)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.FrequencyPath, "frequencies", "f", "", "the frequencies list CSV file name")
	f.StringVarP(&cfg.ConversionPath, "conversions", "c", "", "the conversion CSV file name")
	f.StringVarP(&cfg.SyllablePath, "syllables", "s", "", "additional list of syllables to include; a plain text file with one syllable per line")
	f.StringVarP(&cfg.OutputPath, "output", "o", "", "the output SQL file name")
	f.StringVarP(&cfg.DBPath, "db", "d", "", "build an SQLite database directly")
	f.StringVarP(&cfg.SymbolPath, "symbols", "y", "", "include a tab-delimited symbols table")
	f.StringVarP(&cfg.EmojiPath, "emoji", "e", "", "include the emoji CSV file as a table")
	f.StringVar(&cfg.CINPath, "cin", "", "also write the word list as a .cin file")
	f.BoolVarP(&cfg.ExcludeZeros, "exclude-zeros", "x", false, "exclude zero-frequency items from the frequency CSV")
	f.BoolVarP(&cfg.HanjiFirst, "hanji-first", "j", false, "weight any Hanji output 1000 and Loji output 900")
	f.StringVar(&locale, "locale", "", "collation locale (BCP 47, e.g. nan-TW); defaults to LC_ALL/LC_COLLATE/LANG")
	f.StringVar(&keyStyle, "key-style", "ascii", "tone style of input keys: ascii (tone digits, no combining marks) or unicode (NFC diacritics; U+0358 and U+030D stay combining)")
	_ = cmd.MarkFlagRequired("frequencies")
	_ = cmd.MarkFlagRequired("conversions")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newFHLCmd() *cobra.Command {
	var cfg pipeline.ExportConfig

	cmd := &cobra.Command{
		Use:     "fhl",
		Short:   "Convert a built Khiin database to the FHL word-list format",
		Example: `  dictgen fhl -i khiin.db -o out/TalmageOverride.db -c chailaiji.cin`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			n, err := pipeline.Export(cmd.Context(), cfg, start)
			if err != nil {
				return err
			}
			fmt.Printf("Exported %d words in %v\n", n, time.Since(start).Round(time.Millisecond))
			if cfg.OutputDB != "" {
				fmt.Printf(" - database: %s\n", cfg.OutputDB)
			}
			if cfg.CINPath != "" {
				fmt.Printf(" - cin: %s\n", cfg.CINPath)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.InputDB, "input", "i", "", "the khiin database file (khiin.db)")
	f.StringVarP(&cfg.OutputDB, "output", "o", "out/TalmageOverride.db", "the output database file")
	f.StringVarP(&cfg.CINPath, "cin", "c", "", "the .cin output file (chailaiji.cin)")
	f.BoolVar(&cfg.HanjiOnly, "hanji-only", false, "skip candidates containing romanized text")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
