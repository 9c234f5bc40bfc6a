package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/khiin/dictgen/pkg/dataset"
	"github.com/khiin/dictgen/pkg/db"
	"github.com/khiin/dictgen/pkg/loji"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fixedNow() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	return Config{
		FrequencyPath:  writeFile(t, dir, "freq.csv", "input,freq,chhan_id\nka,10,1\nka2,5,2\ne,3,3\n"),
		ConversionPath: writeFile(t, dir, "conv.csv", "input,output,weight\nka,家,1\nbo,無,1\ne,會,5\ne,ē,7\n"),
		OutputPath:     filepath.Join(dir, "out", "khiin.sql"),
		DBPath:         filepath.Join(dir, "out", "khiin.db"),
		Locale:         language.English,
		KeyStyle:       loji.ASCII,
	}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	var logBuf bytes.Buffer
	r := NewRunner(cfg)
	r.Now = fixedNow
	r.Logger = log.New(&logBuf, "", 0)
	var progressCalls int
	r.OnProgress = func(done, total int) { progressCalls++ }

	stats, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Inputs: 2, Tokens: 3, Syllables: 2}, stats)
	assert.NotZero(t, progressCalls)
	assert.Contains(t, logBuf.String(), "kept 2 inputs and 3 conversions")
	assert.Contains(t, logBuf.String(), "collating with locale en")

	script, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(script), "('ka', 10, 1),\n('e', 3, 3);")
	assert.NotContains(t, string(script), "'bo'")
	assert.Contains(t, string(script), "('version_timestamp', '20261018')")

	conn, err := db.Open(cfg.DBPath)
	require.NoError(t, err)
	defer conn.Close()
	var syls []string
	rows, err := conn.Query(`SELECT input FROM syllables ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var s string
		require.NoError(t, rows.Scan(&s))
		syls = append(syls, s)
	}
	assert.Equal(t, []string{"e", "ka"}, syls)
}

func TestLoadLargeSourcesWithSyllables(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBPath = ""
	cfg.KeyStyle = loji.Unicode
	dir := filepath.Dir(cfg.FrequencyPath)

	var freq, conv, syls strings.Builder
	freq.WriteString("input,freq,chhan_id\n")
	conv.WriteString("input,output,weight\n")
	for i := 0; i < 3000; i++ {
		in := fmt.Sprintf("t\u00e2i%c%c", 'a'+rune(i%26), 'a'+rune(i/26%26))
		fmt.Fprintf(&freq, "%s,%d,%d\n", in, i%7, i)
		fmt.Fprintf(&conv, "%s,字%d,%d\n", in, i, i%5)
		fmt.Fprintf(&syls, "s\u00f3%c%c\n", 'a'+rune(i%26), 'a'+rune(i/26%26))
	}
	cfg.FrequencyPath = writeFile(t, dir, "big_freq.csv", freq.String())
	cfg.ConversionPath = writeFile(t, dir, "big_conv.csv", conv.String())
	cfg.SyllablePath = writeFile(t, dir, "big_syls.txt", syls.String())

	b, err := NewRunner(cfg).Load()
	require.NoError(t, err)
	require.NotEmpty(t, b.Conversions)
	require.NotEmpty(t, b.Syllables)

	coll := loji.NewCollator(cfg.Locale)
	for i := 1; i < len(b.Syllables); i++ {
		require.True(t, coll.Less(b.Syllables[i-1], b.Syllables[i]), "syllables out of order at %d", i)
	}
	for i := 1; i < len(b.Conversions); i++ {
		require.LessOrEqual(t, dataset.ConversionCompare(coll, b.Conversions[i-1], b.Conversions[i]), 0, "conversions out of order at %d", i)
	}
}

func TestRunWritesCIN(t *testing.T) {
	cfg := testConfig(t)
	cfg.CINPath = filepath.Join(filepath.Dir(cfg.OutputPath), "chailaiji.cin")

	stats, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Words)

	cin, err := os.ReadFile(cfg.CINPath)
	require.NoError(t, err)
	assert.Contains(t, string(cin), "ka 家\n")
	assert.Contains(t, string(cin), "e 會\n")
	assert.True(t, strings.HasSuffix(string(cin), "%chardef end"))
}

func TestRunHanjiFirst(t *testing.T) {
	cfg := testConfig(t)
	cfg.HanjiFirst = true
	cfg.DBPath = ""
	r := NewRunner(cfg)
	b, err := r.Load()
	require.NoError(t, err)

	weights := map[string]int{}
	for _, c := range b.Conversions {
		weights[c.Output] = c.Weight
	}
	assert.Equal(t, 1000, weights["會"])
	assert.Equal(t, 900, weights["ē"])
	assert.Equal(t, "會", b.Conversions[0].Output)
}

func TestRunSideTables(t *testing.T) {
	cfg := testConfig(t)
	dir := filepath.Dir(cfg.FrequencyPath)
	cfg.SymbolPath = writeFile(t, dir, "symbols.tsv", "input\toutput\tcategory\n,\t，\t1\n")
	cfg.EmojiPath = writeFile(t, dir, "emoji.csv", "id,emoji,short_name,category,code\n1,😀,grinning,0,1F600\n")
	cfg.SyllablePath = writeFile(t, dir, "syls.txt", "a\nka\n")

	stats, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Symbols)
	assert.Equal(t, 1, stats.Emoji)
	assert.Equal(t, 3, stats.Syllables)
}

func TestRunMalformedLeavesNoScript(t *testing.T) {
	cfg := testConfig(t)
	cfg.ConversionPath = writeFile(t, filepath.Dir(cfg.FrequencyPath), "bad.csv", "input,output,weight\nka,家,heavy\n")

	_, err := NewRunner(cfg).Run(context.Background())
	var me *dataset.MalformedInputError
	require.True(t, errors.As(err, &me), "got %v", err)
	assert.Equal(t, 2, me.Row)
	assert.Equal(t, "weight", me.Column)

	_, statErr := os.Stat(cfg.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunMissingSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.FrequencyPath = filepath.Join(t.TempDir(), "missing.csv")
	_, err := NewRunner(cfg).Run(context.Background())
	var nf *dataset.SourceNotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestConfigValidate(t *testing.T) {
	err := Config{}.Validate()
	require.Error(t, err)
	for _, want := range []string{"frequency", "conversion", "output"} {
		assert.True(t, strings.Contains(err.Error(), want), err.Error())
	}
}

func TestExport(t *testing.T) {
	cfg := testConfig(t)
	_, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)

	dir := t.TempDir()
	exp := ExportConfig{
		InputDB:  cfg.DBPath,
		OutputDB: filepath.Join(dir, "out", "TalmageOverride.db"),
		CINPath:  filepath.Join(dir, "chailaiji.cin"),
	}
	n, err := Export(context.Background(), exp, fixedNow())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	cin, err := os.ReadFile(exp.CINPath)
	require.NoError(t, err)
	assert.Contains(t, string(cin), "ka 家\n")
	assert.Contains(t, string(cin), "e 會\n")

	_, err = Export(context.Background(), ExportConfig{InputDB: cfg.DBPath}, fixedNow())
	assert.Error(t, err)
}
