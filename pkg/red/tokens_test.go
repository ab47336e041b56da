package red

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FullGrammar(t *testing.T) {
	tok, err := Parse("Mob Psycho vol_3 Side Story (2021) (ONE) {ASIN.B0C34GQRYZ} [User]", ".m4b")
	require.NoError(t, err)

	assert.Equal(t, Tokens{
		Title:    "Mob Psycho",
		Volume:   "vol_03",
		Subtitle: "Side Story",
		Year:     "(2021)",
		Author:   "(ONE)",
		ASIN:     "{ASIN.B0C34GQRYZ}",
		Tag:      "[User]",
		Ext:      ".m4b",
	}, tok)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		ext      string
		title    string
		volume   string
		subtitle string
		year     string
		author   string
		tag      string
	}{
		{
			name:   "minimal",
			input:  "Overlord vol_13 {ASIN.B0CW3NF5NY}",
			title:  "Overlord",
			volume: "vol_13",
		},
		{
			name:   "strips extension",
			input:  "Overlord vol_13 {ASIN.B0CW3NF5NY}.m4b",
			ext:    ".m4b",
			title:  "Overlord",
			volume: "vol_13",
		},
		{
			name:   "author without year",
			input:  "Overlord vol_13 (Kugane Maruyama) {ASIN.B0CW3NF5NY}",
			title:  "Overlord",
			volume: "vol_13",
			author: "(Kugane Maruyama)",
		},
		{
			name:   "year without author",
			input:  "Overlord vol_13 (2024) {ASIN.B0CW3NF5NY}",
			title:  "Overlord",
			volume: "vol_13",
			year:   "(2024)",
		},
		{
			name:     "old dash layout around volume",
			input:    "Overlord - vol_13 - The Paladin of the Sacred Kingdom {ASIN.B0CW3NF5NY} [H2OKing]",
			title:    "Overlord",
			volume:   "vol_13",
			subtitle: "The Paladin of the Sacred Kingdom",
			tag:      "[H2OKing]",
		},
		{
			name:     "dash fallback with free-form volume",
			input:    "Overlord - Volume 4 - The Two Leaders {ASIN.B0CW3NF5NY}",
			title:    "Overlord",
			volume:   "vol_04",
			subtitle: "The Two Leaders",
		},
		{
			name:   "no volume defaults to vol_01",
			input:  "Project Hail Mary (2021) (Andy Weir) {ASIN.B08G9PRS1K}",
			title:  "Project Hail Mary",
			volume: "vol_01",
			year:   "(2021)",
			author: "(Andy Weir)",
		},
		{
			name:   "case-insensitive volume",
			input:  "Berserk VOL_7 {ASIN.B0CW3NF5NY}",
			title:  "Berserk",
			volume: "vol_07",
		},
		{
			name:   "asin in the middle",
			input:  "Berserk {ASIN.B0CW3NF5NY} vol_2",
			title:  "Berserk",
			volume: "vol_02",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tok, err := Parse(tc.input, tc.ext)
			require.NoError(t, err)
			assert.Equal(t, tc.title, tok.Title)
			assert.Equal(t, tc.volume, tok.Volume)
			assert.Equal(t, tc.subtitle, tok.Subtitle)
			assert.Equal(t, tc.year, tok.Year)
			assert.Equal(t, tc.author, tok.Author)
			assert.Equal(t, tc.tag, tok.Tag)
			assert.NotEmpty(t, tok.ASIN)
		})
	}
}

func TestParse_MissingASIN(t *testing.T) {
	inputs := []string{
		"Overlord vol_13",
		"Overlord vol_13 {ASIN.SHORT}",
		"Overlord vol_13 [ASIN.B0CW3NF5NY]",
		"Overlord vol_13 ASIN.B0CW3NF5NY",
		"",
	}
	for _, in := range inputs {
		_, err := Parse(in, ".m4b")
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, ErrMissingASIN))

		var missing *MissingASINError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, in, missing.Name)
	}
}

func TestParse_ASINAnywhere(t *testing.T) {
	for _, in := range []string{
		"{ASIN.B0CW3NF5NY}",
		"x{ASIN.b0cw3nf5ny}y",
		"Title vol_1 {ASIN.0123456789} [Tag]",
	} {
		_, err := Parse(in, "")
		assert.NoError(t, err, "input %q", in)
	}
}

func TestParse_NormalizesUnicode(t *testing.T) {
	composed, err := Parse("Caf\u00e9 vol_1 {ASIN.B0CW3NF5NY}", ".m4b")
	require.NoError(t, err)
	decomposed, err := Parse("Cafe\u0301 vol_1 {ASIN.B0CW3NF5NY}", ".m4b")
	require.NoError(t, err)

	assert.Equal(t, composed.Title, decomposed.Title)
	assert.Equal(t, "Caf\u00e9", decomposed.Title)
}

func TestNormalizeVolume(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"vol_4", "vol_04"},
		{"vol.4", "vol_04"},
		{"vol 4", "vol_04"},
		{"Vol. 4", "vol_04"},
		{"volume 4", "vol_04"},
		{"v4", "vol_04"},
		{"v.4", "vol_04"},
		{"4", "vol_04"},
		{"04", "vol_04"},
		{"vol_13", "vol_13"},
		{"vol_123", "vol_123"},
		{"abc", "vol_abc"},
	}
	for _, tc := range tests {
		got := NormalizeVolume(tc.in)
		assert.Equal(t, tc.want, got, "NormalizeVolume(%q)", tc.in)
		assert.Equal(t, got, NormalizeVolume(got), "NormalizeVolume not idempotent for %q", tc.in)
	}
}

func TestZeroPadVolumes(t *testing.T) {
	assert.Equal(t, "Overlord vol_04 {ASIN.B0CW3NF5NY}", ZeroPadVolumes("Overlord vol_4 {ASIN.B0CW3NF5NY}"))
	assert.Equal(t, "A vol_10 B vol_02", ZeroPadVolumes("A vol_10 B vol_2"))
	assert.Equal(t, "No volume", ZeroPadVolumes("No volume"))
}

func TestExtractors(t *testing.T) {
	rest, tag := extractTag("Title vol_1 (Author) [Tag] ")
	assert.Equal(t, "Title vol_1 (Author)", rest)
	assert.Equal(t, "[Tag]", tag)

	rest, tag = extractTag("Title [Tag] vol_1")
	assert.Equal(t, "Title [Tag] vol_1", rest, "tag must be anchored at the end")
	assert.Empty(t, tag)

	rest, author := extractAuthor("Title vol_1 (2020) (Some One)")
	assert.Equal(t, "Title vol_1 (2020)", rest)
	assert.Equal(t, "(Some One)", author)

	rest, year := extractYear(rest)
	assert.Equal(t, "Title vol_1", rest)
	assert.Equal(t, "(2020)", year)

	rest, year = extractYear("Title (1850)")
	assert.Equal(t, "Title (1850)", rest)
	assert.Empty(t, year)
}
