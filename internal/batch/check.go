package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/vmunix/hardbound/internal/linker"
	"golang.org/x/sync/errgroup"
)

// Problem is a pair that would fail if linked.
type Problem struct {
	Pair Pair
	Err  error
}

// Check verifies every pair without linking anything: preflight always,
// and in ModeRED also that the source name parses and its resolved
// torrent path fits the cap. Up to workers pairs are checked at once
// (<= 0 means GOMAXPROCS). Problems are returned in input order.
func (r *Runner) Check(ctx context.Context, pairs []Pair, workers int) ([]Problem, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	errs := make([]error, len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			errs[i] = r.check(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var problems []Problem
	for i, err := range errs {
		if err == nil {
			continue
		}
		r.log.Warn("batch.check_failed", "line", pairs[i].Line, "src", pairs[i].Src, "dst", pairs[i].Dst, "error", err)
		problems = append(problems, Problem{Pair: pairs[i], Err: err})
	}
	r.log.Info("batch.check_complete", "pairs", len(pairs), "problems", len(problems))
	return problems, nil
}

func (r *Runner) check(p Pair) error {
	target := p.Dst
	if r.mode == ModeRED {
		target = filepath.Join(p.Dst, "_")
	}
	if err := linker.Preflight(p.Src, target); err != nil {
		return err
	}
	if r.mode != ModeRED {
		return nil
	}

	_, res, err := r.resolver.ResolveDir(p.Src, p.Dst, "")
	if err != nil {
		return err
	}
	if limit := r.resolver.Cap(); !res.Fits(limit) {
		return fmt.Errorf("%w: %d characters, cap %d", ErrOverCap, res.Length, limit)
	}
	return nil
}
