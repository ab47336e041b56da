package linker

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vmunix/hardbound/pkg/red"
)

// Kind names a canonical destination slot.
type Kind string

const (
	KindCue  Kind = "cue"
	KindJPG  Kind = "jpg"
	KindM4B  Kind = "m4b"
	KindMP3  Kind = "mp3"
	KindFLAC Kind = "flac"
	KindPDF  Kind = "pdf"
	KindTXT  Kind = "txt"
	KindNFO  Kind = "nfo"

	// KindM4A is not part of OutputMap; it keeps the uncleaned base name.
	KindM4A Kind = "m4a"
)

// OutputMap holds the canonical destination path per slot.
type OutputMap map[Kind]string

var outputKinds = []Kind{KindCue, KindJPG, KindM4B, KindMP3, KindFLAC, KindPDF, KindTXT, KindNFO}

// weirdSuffixes are double suffixes rewritten before classification.
var weirdSuffixes = []struct{ bad, good string }{
	{".cue.jpg", ".jpg"},
	{".cue.jpeg", ".jpeg"},
	{".cue.png", ".png"},
	{".cue.m4b", ".m4b"},
	{".cue.mp3", ".mp3"},
}

// routes maps a lowercased source extension to its slot.
var routes = map[string]Kind{
	".cue":  KindCue,
	".m4b":  KindM4B,
	".mp3":  KindMP3,
	".flac": KindFLAC,
	".m4a":  KindM4A,
	".jpg":  KindJPG,
	".jpeg": KindJPG,
	".png":  KindJPG,
	".webp": KindJPG,
	".pdf":  KindPDF,
	".txt":  KindTXT,
	".nfo":  KindNFO,
}

var trailingGroups = regexp.MustCompile(`(\s*[\[{][^\]}]+[\]}]\s*)+$`)

// CleanBaseName strips trailing [...] and {...} groups from a file base
// name. An ASIN token found anywhere in name is appended back.
func CleanBaseName(name string) string {
	asin := red.ExtractASIN(name)
	cleaned := trailingGroups.ReplaceAllString(name, "")
	if asin != "" {
		cleaned = cleaned + " " + asin
	}
	return strings.TrimSpace(cleaned)
}

// Outputs returns the canonical destination of every slot under dstDir.
// Files use the cleaned base name; dstDir itself is left as given.
func Outputs(dstDir, baseName string) OutputMap {
	base := CleanBaseName(baseName)
	out := make(OutputMap, len(outputKinds))
	for _, k := range outputKinds {
		out[k] = filepath.Join(dstDir, base+"."+string(k))
	}
	return out
}

// NormalizeWeirdExt rewrites names like "x.cue.jpg" to "x.jpg".
func NormalizeWeirdExt(name string) string {
	for _, s := range weirdSuffixes {
		if strings.HasSuffix(name, s.bad) {
			return strings.TrimSuffix(name, s.bad) + s.good
		}
	}
	return name
}

// Route returns the slot for a source file name, after weird suffix
// normalization. ok is false for unrecognized extensions.
func Route(name string) (Kind, bool) {
	k, ok := routes[strings.ToLower(filepath.Ext(NormalizeWeirdExt(name)))]
	return k, ok
}

// isCoverSource matches the images used to illustrate a dry-run cover.jpg.
func isCoverSource(name string) bool {
	switch strings.ToLower(filepath.Ext(NormalizeWeirdExt(name))) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
