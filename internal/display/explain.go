package display

import (
	"fmt"
	"strings"

	"github.com/vmunix/hardbound/internal/batch"
	"github.com/vmunix/hardbound/pkg/red"
)

// Tokens prints every parsed field, marking absent ones.
func (p *Printer) Tokens(t red.Tokens) {
	fields := []struct{ k, v string }{
		{"title", t.Title},
		{"volume", t.Volume},
		{"subtitle", t.Subtitle},
		{"year", t.Year},
		{"author", t.Author},
		{"asin", t.ASIN},
		{"tag", t.Tag},
		{"extension", t.Ext},
	}
	for _, f := range fields {
		v := f.v
		if v == "" {
			v = p.styles.dim.Render("(none)")
		}
		fmt.Fprintf(p.w, "  %s %s\n", p.styles.bold.Render(fmt.Sprintf("%-10s", f.k)), v)
	}
}

// Resolution prints the chosen torrent folder and file with their budget.
func (p *Printer) Resolution(res red.Resolution, limit int) {
	status := p.styles.green.Render("✓ within cap")
	if !res.Fits(limit) {
		status = p.styles.red.Render("✗ over cap")
	}
	fmt.Fprintf(p.w, "  %s %s\n", p.styles.bold.Render("folder    "), res.Folder)
	fmt.Fprintf(p.w, "  %s %s\n", p.styles.bold.Render("file      "), res.File)
	fmt.Fprintf(p.w, "  %s %s\n", p.styles.bold.Render("dir       "), res.Dir)
	fmt.Fprintf(p.w, "  %s %d/%d %s\n", p.styles.bold.Render("length    "), res.Length, limit, status)
	fmt.Fprintf(p.w, "  %s %s (attempt %d)\n", p.styles.bold.Render("phase     "), res.Phase, res.Attempt)
	if len(res.Steps) > 0 {
		fmt.Fprintf(p.w, "  %s %s\n", p.styles.bold.Render("trimmed   "), strings.Join(res.Steps, ", "))
	}
}

// BadLines prints one warning per malformed batch line.
func (p *Printer) BadLines(bad []batch.LineError) {
	for _, b := range bad {
		p.Warn(fmt.Sprintf("line %d: bad line (expected 'SRC|DST'): %s", b.Line, b.Content))
	}
}
