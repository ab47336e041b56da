package linker

import (
	"path/filepath"
	"strings"
)

// Policy lists destination names and extensions that are never created.
// Names are compared case-folded; extensions lowercased with a leading dot.
type Policy struct {
	Names map[string]bool
	Exts  map[string]bool
}

// DefaultPolicy excludes cover.jpg, metadata.json and .epub.
func DefaultPolicy() Policy {
	return NewPolicy([]string{"cover.jpg", "metadata.json"}, []string{".epub"})
}

// NewPolicy builds a Policy from name and extension lists.
func NewPolicy(names, exts []string) Policy {
	p := Policy{Names: make(map[string]bool), Exts: make(map[string]bool)}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			p.Names[strings.ToLower(n)] = true
		}
	}
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		p.Exts[e] = true
	}
	return p
}

// Excluded reports whether dst must not be created.
func (p Policy) Excluded(dst string) bool {
	name := filepath.Base(dst)
	if p.Names[strings.ToLower(name)] {
		return true
	}
	return p.Exts[strings.ToLower(filepath.Ext(name))]
}
