// Package red parses decorated audiobook names and builds torrent folder and
// file names that fit the RED path cap while keeping the ASIN token.
package red

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultVolume is used when a name carries no recognizable volume.
const DefaultVolume = "vol_01"

// Tokens are the parts of a decorated name.
// Optional fields are empty when absent. Year, Author, ASIN and Tag keep
// their enclosing brackets, e.g. "(2021)", "(ONE)", "{ASIN.B0C34GQRYZ}", "[User]".
type Tokens struct {
	Title    string
	Volume   string // normalized, e.g. "vol_03"
	Subtitle string
	Year     string
	Author   string
	ASIN     string
	Tag      string
	Ext      string // e.g. ".m4b"
}

var (
	asinPattern   = regexp.MustCompile(`\{ASIN\.[A-Za-z0-9]{10}\}`)
	tagPattern    = regexp.MustCompile(`\s*\[[^\]]+\]\s*$`)
	authorPattern = regexp.MustCompile(`\s*\([^)]+\)\s*$`)
	yearPattern   = regexp.MustCompile(`\s*\((?:19|20)\d{2}\)\s*$`)
	volPattern    = regexp.MustCompile(`(?i)\b(vol_\d+)\b`)
	zeroPadRegex  = regexp.MustCompile(`vol_(\d+)`)
)

// volumePatterns are tried in order by NormalizeVolume; the first capture wins.
var volumePatterns = []*regexp.Regexp{
	regexp.MustCompile(`vol_(\d+)`),
	regexp.MustCompile(`vol\.?\s*(\d+)`),
	regexp.MustCompile(`volume\s+(\d+)`),
	regexp.MustCompile(`v\.?\s*(\d+)`),
	regexp.MustCompile(`(\d+)`),
}

// Parse splits a decorated name into Tokens.
//
// Grammar: <title> [- ] vol_NN [<subtitle>] [(YYYY)] [(Author)] {ASIN.XXXXXXXXXX} [[Tag]]
//
// Each step removes its match before the next one scans, in the order
// extension, ASIN, tag, author, year, then volume/title/subtitle.
// The only failure is a missing ASIN, reported as *MissingASINError.
func Parse(name, ext string) (Tokens, error) {
	working := norm.NFC.String(name)
	if ext != "" {
		working = strings.TrimSuffix(working, ext)
	}

	working, asin := extractASIN(working)
	if asin == "" {
		return Tokens{}, &MissingASINError{Name: name}
	}
	working, tag := extractTag(working)
	working, author := extractAuthor(working)
	working, year := extractYear(working)
	title, volume, subtitle := splitVolume(working)

	return Tokens{
		Title:    strings.TrimSpace(title),
		Volume:   volume,
		Subtitle: subtitle,
		Year:     year,
		Author:   author,
		ASIN:     asin,
		Tag:      tag,
		Ext:      ext,
	}, nil
}

// ExtractASIN returns the first ASIN token in s, or "" if there is none.
func ExtractASIN(s string) string {
	return asinPattern.FindString(s)
}

func extractASIN(s string) (string, string) {
	asin := asinPattern.FindString(s)
	if asin == "" {
		return s, ""
	}
	return strings.TrimSpace(asinPattern.ReplaceAllString(s, "")), asin
}

// trailing removes a group anchored at the end of s.
func trailing(re *regexp.Regexp, s string) (string, string) {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s, ""
	}
	return strings.TrimSpace(s[:loc[0]]), strings.TrimSpace(s[loc[0]:loc[1]])
}

func extractTag(s string) (string, string) {
	return trailing(tagPattern, s)
}

// extractAuthor takes the outermost trailing parenthesized group.
// A year-shaped group is left for extractYear.
func extractAuthor(s string) (string, string) {
	if yearPattern.MatchString(s) {
		return s, ""
	}
	return trailing(authorPattern, s)
}

func extractYear(s string) (string, string) {
	return trailing(yearPattern, s)
}

// splitVolume finds a vol_NN token and splits title and subtitle around it.
// Without one it falls back to the "title - volume - subtitle" layout.
func splitVolume(s string) (title, volume, subtitle string) {
	if loc := volPattern.FindStringSubmatchIndex(s); loc != nil {
		volume = NormalizeVolume(s[loc[2]:loc[3]])
		title = strings.TrimSpace(s[:loc[0]])
		subtitle = strings.TrimSpace(s[loc[1]:])
		title = strings.TrimSpace(strings.TrimSuffix(title, " -"))
		if title == "-" {
			title = ""
		}
		subtitle = strings.TrimSpace(strings.TrimPrefix(subtitle, "- "))
		if subtitle == "-" {
			subtitle = ""
		}
		return title, volume, subtitle
	}

	var parts []string
	for _, p := range strings.Split(s, " - ") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	switch {
	case len(parts) >= 2:
		return parts[0], NormalizeVolume(parts[1]), strings.Join(parts[2:], " - ")
	case len(parts) == 1:
		return parts[0], DefaultVolume, ""
	default:
		return s, DefaultVolume, ""
	}
}

// NormalizeVolume renders a volume marker as vol_NN.
// Accepts "vol_4", "vol.4", "vol 4", "volume 4", "v4" and a bare "4".
// Re-normalizing its own output returns the same value.
func NormalizeVolume(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, re := range volumePatterns {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return fmt.Sprintf("vol_%02d", n)
	}
	if strings.HasPrefix(s, "vol_") {
		return s
	}
	if len(s) < 2 {
		s = strings.Repeat("0", 2-len(s)) + s
	}
	return "vol_" + s
}

// ZeroPadVolumes rewrites every vol_N in name as vol_NN.
func ZeroPadVolumes(name string) string {
	return zeroPadRegex.ReplaceAllStringFunc(name, func(match string) string {
		n, err := strconv.Atoi(match[len("vol_"):])
		if err != nil {
			return match
		}
		return fmt.Sprintf("vol_%02d", n)
	})
}
