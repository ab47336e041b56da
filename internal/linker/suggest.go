package linker

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

const (
	// suggestThreshold is the minimum Jaro-Winkler similarity for a suggestion.
	suggestThreshold = 0.6

	// maxSuggestions caps SuggestSimilar results.
	maxSuggestions = 3
)

// Suggestion is a sibling directory similar to a missing path.
type Suggestion struct {
	Path  string
	Score float64
}

// SuggestSimilar lists up to three directories next to a missing path
// whose names resemble it, best match first.
func SuggestSimilar(path string) []Suggestion {
	parent := filepath.Dir(filepath.Clean(path))
	want := strings.ToLower(filepath.Base(path))

	entries, err := os.ReadDir(parent)
	if err != nil {
		return nil
	}

	var out []Suggestion
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		score := float64(edlib.JaroWinklerSimilarity(want, strings.ToLower(e.Name())))
		if score >= suggestThreshold {
			out = append(out, Suggestion{Path: filepath.Join(parent, e.Name()), Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
