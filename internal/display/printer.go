// Package display renders link progress and summaries for the terminal.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/vmunix/hardbound/internal/linker"
)

// Printer writes status rows, section banners and summaries. It
// implements linker.Observer.
type Printer struct {
	w      io.Writer
	width  int
	styles styles
}

var _ linker.Observer = (*Printer)(nil)

type styles struct {
	green, yellow, blue, red, grey lipgloss.Style
	cyan, magenta, dim, bold       lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	c := func(hex string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(hex)) }
	return styles{
		green:   c("#4ADE80"),
		yellow:  c("#FACC15"),
		blue:    c("#60A5FA"),
		red:     c("#FF6B6B").Bold(true),
		grey:    c("#8B8B8B"),
		cyan:    c("#22D3EE").Bold(true),
		magenta: c("#E879F9").Bold(true),
		dim:     r.NewStyle().Faint(true),
		bold:    r.NewStyle().Bold(true),
	}
}

// New creates a Printer. width <= 0 uses a default width.
func New(w io.Writer, color bool, width int) *Printer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	if width <= 0 {
		width = defaultWidth
	}
	return &Printer{w: w, width: width, styles: newStyles(r)}
}

func (p *Printer) rule() string {
	return strings.Repeat("─", max(4, p.width-2))
}

// Banner prints the run title with its mode.
func (p *Printer) Banner(title string, dryRun bool) {
	mode := p.styles.green.Render("[COMMIT]")
	if dryRun {
		mode = p.styles.yellow.Render("[DRY-RUN]")
	}
	line := p.rule()
	fmt.Fprintf(p.w, "┌%s┐\n", line)
	fmt.Fprintf(p.w, "│ %s %s\n", p.styles.cyan.Render(title), mode)
	fmt.Fprintf(p.w, "└%s┘\n", line)
}

// Section starts a group of rows.
func (p *Printer) Section(title string) {
	fmt.Fprintln(p.w, p.styles.magenta.Render("🎧 "+title))
	fmt.Fprintln(p.w, p.rule())
}

// Mkdir reports a created or planned directory.
func (p *Printer) Mkdir(dir string, dryRun bool) {
	st := p.styles.blue
	if dryRun {
		st = p.styles.yellow
	}
	p.row("📁", st, string(linker.ActionMkdir), "", dir)
}

// Row reports one link decision.
func (p *Printer) Row(e linker.Event) {
	icon, st := p.look(e)
	p.row(icon, st, string(e.Action), e.Src, e.Dst)
	if e.Err != nil {
		fmt.Fprintln(p.w, "    "+p.styles.red.Render(e.Err.Error()))
	}
}

// look picks the icon and color for an event.
func (p *Printer) look(e linker.Event) (string, lipgloss.Style) {
	switch e.Outcome {
	case linker.Linked:
		if e.DryRun {
			return "🔗", p.styles.yellow
		}
		return "🔗", p.styles.green
	case linker.Replaced:
		if e.DryRun {
			return "↻", p.styles.yellow
		}
		return "↻", p.styles.blue
	case linker.Already:
		return "✓", p.styles.grey
	case linker.Exists:
		return "⏭️", p.styles.yellow
	case linker.Excluded:
		return "🚫", p.styles.grey
	case linker.Skipped:
		if e.Src == "" || e.Action == linker.ActionDup {
			return "🚫", p.styles.grey
		}
		return "⚠️", p.styles.yellow
	default:
		return "💥", p.styles.red
	}
}

func (p *Printer) row(icon string, st lipgloss.Style, kind, src, dst string) {
	if src == "" {
		src = "—"
	}
	left := fmt.Sprintf("%s %s", icon, st.Render(fmt.Sprintf("%-6s", kind)))
	middle := fmt.Sprintf("%s %s %s", src, "→", dst)
	middle = Ellipsize(middle, max(20, p.width-14))
	parts := strings.SplitN(middle, " → ", 2)
	if len(parts) == 2 {
		middle = p.styles.grey.Render(parts[0]) + " " + p.styles.dim.Render("→") + " " + parts[1]
	}
	fmt.Fprintf(p.w, "%s  %s\n", left, middle)
}

// Warn prints a warning line.
func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.w, p.styles.yellow.Render("[WARN] "+msg))
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.w, p.styles.red.Render("❌ "+msg))
}

// Info prints a plain informational line.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, msg)
}

// Summary prints the seven counters and the elapsed time.
func (p *Printer) Summary(stats linker.Stats, elapsed time.Duration) {
	colors := map[linker.Outcome]lipgloss.Style{
		linker.Linked:   p.styles.green,
		linker.Replaced: p.styles.blue,
		linker.Already:  p.styles.grey,
		linker.Exists:   p.styles.yellow,
		linker.Excluded: p.styles.grey,
		linker.Skipped:  p.styles.grey,
		linker.Errored:  p.styles.red,
	}
	var cells []string
	for _, o := range linker.Outcomes() {
		cells = append(cells, fmt.Sprintf("%s %d", colors[o].Render(o.String()+":"), stats.Get(o)))
	}
	fmt.Fprintln(p.w, p.rule())
	fmt.Fprintln(p.w, strings.Join(cells, "  |  "))
	fmt.Fprintf(p.w, "%s %.3fs\n", p.styles.cyan.Render("elapsed:"), elapsed.Seconds())
	fmt.Fprintln(p.w, p.rule())
}

// Ellipsize shortens s to limit characters by cutting out its middle.
func Ellipsize(s string, limit int) string {
	n := utf8.RuneCountInString(s)
	if n <= limit {
		return s
	}
	r := []rune(s)
	if limit <= 10 {
		return string(r[:max(0, limit-1)]) + "…"
	}
	keep := (limit - 1) / 2
	return string(r[:keep]) + "… " + string(r[n-(limit-keep-2):])
}
