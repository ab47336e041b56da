package batch

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/vmunix/hardbound/internal/linker"
	"github.com/vmunix/hardbound/pkg/red"
)

// Mode selects how DST is interpreted.
type Mode int

const (
	// ModeDirect links into DST and names files after its last element.
	ModeDirect Mode = iota
	// ModeRED treats DST as a root and derives a RED-compliant folder.
	ModeRED
)

func (m Mode) String() string {
	if m == ModeRED {
		return "red"
	}
	return "direct"
}

// Summary reports a finished batch.
type Summary struct {
	Stats    linker.Stats
	Lines    int // non-blank, non-comment lines
	Items    int
	BadLines []LineError
	Failed   int // items abandoned before or during planning
	Elapsed  time.Duration
}

// Runner processes batch items one at a time.
type Runner struct {
	log       *slog.Logger
	linker    *linker.Linker
	obs       linker.Observer
	resolver  *red.Resolver
	mode      Mode
	preflight bool
}

// NewRunner creates a Runner. resolver is only used in ModeRED.
func NewRunner(log *slog.Logger, l *linker.Linker, obs linker.Observer, mode Mode, resolver *red.Resolver) *Runner {
	if log == nil {
		log = slog.Default()
	}
	if obs == nil {
		obs = linker.NopObserver{}
	}
	if resolver == nil {
		resolver = red.NewResolver(log, red.PathCap)
	}
	return &Runner{log: log, linker: l, obs: obs, resolver: resolver, mode: mode}
}

// SetPreflight enables Preflight checks before each item.
func (r *Runner) SetPreflight(on bool) {
	r.preflight = on
}

// Run reads pairs from in and plans each one sequentially. Bad lines are
// logged once each and skipped. Item failures are counted and the batch
// moves on. ctx is checked between items only.
func (r *Runner) Run(ctx context.Context, in io.Reader, opts linker.Options) (Summary, error) {
	start := time.Now()
	log := r.log.With("mode", r.mode.String(), "also_cover", opts.AlsoCover,
		"zero_pad", opts.ZeroPad, "force", opts.Force, "dry_run", opts.DryRun)
	log.Info("batch.start")

	pairs, bad, err := Read(in)
	sum := Summary{BadLines: bad, Lines: len(pairs) + len(bad)}
	for _, b := range bad {
		log.Warn("batch.bad_line", "line_number", b.Line, "content", b.Content)
	}
	if err != nil {
		sum.Elapsed = time.Since(start)
		return sum, err
	}

	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			log.Warn("batch.cancelled", "remaining", len(pairs)-sum.Items)
			sum.Elapsed = time.Since(start)
			return sum, err
		}
		sum.Items++
		if !r.item(log, p, opts, &sum.Stats) {
			sum.Failed++
		}
	}

	sum.Elapsed = time.Since(start)
	log.Info("batch.complete", "lines_read", sum.Lines, "books_processed", sum.Items,
		"bad_lines", len(sum.BadLines), "linked", sum.Stats.Linked, "replaced", sum.Stats.Replaced,
		"already", sum.Stats.Already, "exists", sum.Stats.Exists, "excluded", sum.Stats.Excluded,
		"skipped", sum.Stats.Skipped, "errors", sum.Stats.Errors, "elapsed", sum.Elapsed)
	return sum, nil
}

// item plans one pair and reports whether it completed.
func (r *Runner) item(log *slog.Logger, p Pair, opts linker.Options, stats *linker.Stats) bool {
	base := filepath.Base(filepath.Clean(p.Dst))
	log = log.With("line", p.Line, "src", p.Src, "dst", p.Dst)
	log.Debug("batch.processing_book", "base", base)
	r.obs.Section(filepath.Base(filepath.Clean(p.Src)))

	if r.preflight {
		target := p.Dst
		if r.mode == ModeRED {
			target = filepath.Join(p.Dst, "_")
		}
		if err := linker.Preflight(p.Src, target); err != nil {
			log.Error("batch.preflight_failed", "error", err)
			stats.Add(linker.Errored)
			r.obs.Row(linker.Event{Outcome: linker.Errored, Action: linker.ActionError,
				Src: p.Src, Dst: p.Dst, DryRun: opts.DryRun, Err: err})
			return false
		}
	}

	var err error
	switch r.mode {
	case ModeRED:
		err = r.linker.PlanRED(p.Src, p.Dst, r.resolver, opts, stats)
	default:
		err = r.linker.Plan(p.Src, p.Dst, base, opts, stats)
	}
	if err != nil {
		log.Warn("batch.item_failed", "error", err)
		return false
	}
	return true
}
