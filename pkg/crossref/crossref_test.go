package crossref

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/khiin/dictgen/pkg/dataset"
	"github.com/khiin/dictgen/pkg/loji"
)

func collator() *loji.Collator { return loji.NewCollator(language.English) }

func load(t *testing.T, freqCSV, convCSV string, hanjiFirst bool) ([]dataset.FrequencyEntry, []dataset.ConversionEntry) {
	t.Helper()
	opts := dataset.Options{Style: loji.ASCII, Collator: collator()}
	if hanjiFirst {
		opts.Reweight = HanjiFirstWeight
	}
	freq, err := dataset.ParseFrequency(strings.NewReader(freqCSV), "freq.csv", opts)
	require.NoError(t, err)
	conv, err := dataset.ParseConversions(strings.NewReader(convCSV), "conv.csv", opts)
	require.NoError(t, err)
	return freq, conv
}

func TestRunEndToEnd(t *testing.T) {
	freq, conv := load(t,
		"input,freq,chhan_id\nka,10,1\nka2,5,2\n",
		"input,output,weight\nka,家,1\nbo,無,1\n",
		false)

	res := Run(freq, conv, nil, loji.ASCII, collator())

	assert.Equal(t, []dataset.FrequencyEntry{{Input: "ka", Freq: 10, ChhanID: 1}}, res.Frequency)
	assert.Equal(t, []dataset.ConversionEntry{{Input: "ka", Output: "家", Weight: 1}}, res.Conversions)
	assert.Equal(t, []string{"ka"}, res.Syllables)
}

func TestIntersectIsIdempotent(t *testing.T) {
	freq, conv := load(t,
		"input,freq,chhan_id\nka,10,1\nbo,3,2\nchit8 e5,7,3\nlang5,0,4\n",
		"input,output,weight\nka,家,1\nchit8-e5,這个,2\nbo,無,1\nbo,毋,3\ngoa2,我,1\n",
		false)
	c := collator()

	f1, c1 := Intersect(freq, conv, c)
	f2, c2 := Intersect(f1, c1, c)
	assert.Equal(t, f1, f2)
	assert.Equal(t, c1, c2)

	require.Len(t, f1, 3)
	assert.Equal(t, "ka", f1[0].Input)
	assert.Equal(t, "chit8 e5", f1[1].Input)
	assert.Equal(t, "bo", f1[2].Input)
	require.Len(t, c1, 4)
	assert.Equal(t, "毋", c1[0].Output)
}

func TestSyllablesSuperset(t *testing.T) {
	freq, conv := load(t,
		"input,freq,chhan_id\nchit8 e5,7,3\nka,1,1\n",
		"input,output,weight\nchit8 e5,這个,2\nka,家,1\n",
		false)
	res := Run(freq, conv, []string{"zz"}, loji.ASCII, collator())

	inv := dataset.NewOrderedSet[string](len(res.Syllables))
	for _, s := range res.Syllables {
		inv.Add(s)
	}
	for _, e := range res.Frequency {
		for _, tok := range strings.Split(e.Input, " ") {
			assert.True(t, inv.Has(loji.StripTones(tok, loji.ASCII)), "missing %q", tok)
		}
	}
	for _, e := range res.Conversions {
		for _, tok := range strings.Split(e.Input, " ") {
			assert.True(t, inv.Has(loji.StripTones(tok, loji.ASCII)), "missing %q", tok)
		}
	}
	assert.Equal(t, []string{"chit", "e", "ka", "zz"}, res.Syllables)
}

func TestHanjiFirst(t *testing.T) {
	_, conv := load(t,
		"input,freq,chhan_id\ne,1,1\n",
		"input,output,weight\ne,會,5\ne,ē,2000\n",
		true)
	require.Len(t, conv, 2)
	assert.Equal(t, dataset.ConversionEntry{Input: "e", Output: "會", Weight: HanjiWeight}, conv[0])
	assert.Equal(t, LojiWeight, conv[1].Weight)
}

func TestHanjiFirstWeight(t *testing.T) {
	assert.Equal(t, 1000, HanjiFirstWeight("會", 5))
	assert.Equal(t, 900, HanjiFirstWeight("ē", 5))
	assert.Equal(t, 1000, HanjiFirstWeight("ē會", 5))
}
