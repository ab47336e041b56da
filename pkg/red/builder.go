package red

import "strings"

// Mask selects which optional tokens a builder embeds.
// Title, volume and ASIN are always present.
type Mask struct {
	Subtitle bool
	Year     bool
	Author   bool
	Tag      bool // ignored by BuildFolderName
}

var (
	// MaskFull keeps every optional token.
	MaskFull = Mask{Subtitle: true, Year: true, Author: true, Tag: true}

	// MaskMinimal keeps only title, volume and ASIN.
	MaskMinimal = Mask{}
)

// Steps describes what the mask drops, for logging.
func (m Mask) Steps(suffix string) []string {
	var steps []string
	if !m.Year {
		steps = append(steps, "drop year"+suffix)
	}
	if !m.Author {
		steps = append(steps, "drop author"+suffix)
	}
	if !m.Tag && suffix == "" {
		steps = append(steps, "drop tag")
	}
	if !m.Subtitle {
		steps = append(steps, "drop subtitle"+suffix)
	}
	return steps
}

// seriesPart is the left segment: "<title> <volume> [<subtitle>]".
func seriesPart(t Tokens, subtitle bool) string {
	parts := []string{t.Title, t.Volume}
	if subtitle && t.Subtitle != "" {
		parts = append(parts, t.Subtitle)
	}
	return strings.Join(parts, " ")
}

// decorations is the right segment: year, author, ASIN and optionally tag.
func decorations(t Tokens, m Mask, withTag bool) string {
	var right []string
	if m.Year && t.Year != "" {
		right = append(right, t.Year)
	}
	if m.Author && t.Author != "" {
		right = append(right, t.Author)
	}
	right = append(right, t.ASIN)
	if withTag && m.Tag && t.Tag != "" {
		right = append(right, t.Tag)
	}
	return strings.Join(right, " ")
}

// BuildFilename assembles "<series> <year> <author> <asin> <tag><ext>".
func BuildFilename(t Tokens, m Mask) string {
	return collapseSpaces(seriesPart(t, m.Subtitle) + " " + decorations(t, m, true) + t.Ext)
}

// BuildFolderName assembles "<series> <year> <author> <asin>". The tag is
// never part of a folder name.
func BuildFolderName(t Tokens, m Mask) string {
	return collapseSpaces(seriesPart(t, m.Subtitle) + " " + decorations(t, m, false))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
