package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmunix/hardbound/internal/batch"
	"github.com/vmunix/hardbound/internal/display"
	"github.com/vmunix/hardbound/internal/history"
)

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Link every SRC|DST pair listed in a file",
		Long: `Link every pair of a batch file, one "SRC|DST" per line.

Blank lines and lines starting with # are ignored. Malformed lines are
reported and skipped. Use "-" to read from stdin.

With --red each DST is a torrent root and the folder name is resolved
from SRC to fit the path cap.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			return a.runBatch(cmd, args[0])
		},
	}
	cmd.Flags().Bool("red", false, "Treat DST as a torrent root (RED mode)")
	cmd.Flags().Bool("check", false, "Only verify every pair, link nothing")
	cmd.Flags().Int("workers", 0, "Pairs verified at once by --check (default: CPU count)")
	addLinkFlags(cmd)
	return cmd
}

func (a *app) runBatch(cmd *cobra.Command, path string) error {
	red, _ := cmd.Flags().GetBool("red")
	commit, _ := cmd.Flags().GetBool("commit")
	opts := a.options(cmd, commit)

	var in io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open batch file: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	mode := batch.ModeDirect
	title := "hardbound batch"
	if red {
		mode = batch.ModeRED
		title = "hardbound batch (RED)"
	}

	p := a.printer(cmd)
	l, err := a.linker(p)
	if err != nil {
		return err
	}
	runner := batch.NewRunner(a.log, l, p, mode, a.resolver())
	runner.SetPreflight(a.cfg.Link.Preflight)

	if check, _ := cmd.Flags().GetBool("check"); check {
		workers, _ := cmd.Flags().GetInt("workers")
		return checkBatch(cmd, p, runner, in, workers)
	}

	p.Banner(title, opts.DryRun)
	sum, err := runner.Run(cmd.Context(), in, opts)
	p.BadLines(sum.BadLines)
	p.Summary(sum.Stats, sum.Elapsed)
	p.Info(fmt.Sprintf("items: %d  |  bad lines: %d  |  failed items: %d", sum.Items, len(sum.BadLines), sum.Failed))

	a.record(&history.Run{
		Command: "batch", Mode: mode.String(), Src: path,
		DryRun: opts.DryRun, Items: sum.Items, Stats: sum.Stats, Elapsed: sum.Elapsed,
	})

	if opts.DryRun {
		p.Info("dry run: re-run with --commit to apply")
	}
	if err != nil {
		return err
	}
	if sum.Stats.Failed() || len(sum.BadLines) > 0 {
		return fmt.Errorf("%w: %d errors, %d bad lines", errFailures, sum.Stats.Errors, len(sum.BadLines))
	}
	return nil
}

// checkBatch verifies every pair and lists the ones that would fail.
func checkBatch(cmd *cobra.Command, p *display.Printer, runner *batch.Runner, in io.Reader, workers int) error {
	pairs, bad, err := batch.Read(in)
	if err != nil {
		return err
	}
	p.BadLines(bad)

	problems, err := runner.Check(cmd.Context(), pairs, workers)
	if err != nil {
		return err
	}
	for _, pr := range problems {
		p.Error(fmt.Sprintf("line %d: %s: %v", pr.Pair.Line, pr.Pair.Src, pr.Err))
	}
	p.Info(fmt.Sprintf("checked: %d  |  bad lines: %d  |  problems: %d", len(pairs), len(bad), len(problems)))

	if len(problems) > 0 || len(bad) > 0 {
		return fmt.Errorf("%w: %d problems, %d bad lines", errFailures, len(problems), len(bad))
	}
	return nil
}
