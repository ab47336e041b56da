package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/hardbound/internal/batch"
	"github.com/vmunix/hardbound/internal/display"
	"github.com/vmunix/hardbound/internal/history"
	"github.com/vmunix/hardbound/internal/linker"
)

func newLinkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link one audiobook folder",
		Long: `Link the files of one audiobook folder under canonical names.

With --dst the files land in that folder, named after its leaf (or
--base-name). With --dst-root a RED-compliant folder is created under the
root, named from the source folder and trimmed to fit the path cap.

Examples:
  hardbound link --src "Overlord vol_13 {ASIN.B0CW3NF5NY}" --dst /library/Overlord/vol_13
  hardbound link --src /books/Overlord --dst-root /torrents/red --commit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			return a.runLink(cmd)
		},
	}
	cmd.Flags().String("src", "", "Source audiobook folder (relative paths resolve under paths.library)")
	cmd.Flags().String("dst", "", "Destination folder")
	cmd.Flags().String("dst-root", "", "Torrent root for a RED-compliant folder")
	cmd.Flags().String("base-name", "", "Base name for destination files (default: leaf of --dst)")
	addLinkFlags(cmd)
	_ = cmd.MarkFlagRequired("src")
	cmd.MarkFlagsMutuallyExclusive("dst", "dst-root")
	cmd.MarkFlagsOneRequired("dst", "dst-root")
	return cmd
}

func (a *app) runLink(cmd *cobra.Command) error {
	src, _ := cmd.Flags().GetString("src")
	dst, _ := cmd.Flags().GetString("dst")
	dstRoot, _ := cmd.Flags().GetString("dst-root")
	baseName, _ := cmd.Flags().GetString("base-name")
	commit, _ := cmd.Flags().GetBool("commit")

	src = a.resolveSrc(src)
	opts := a.options(cmd, commit)
	p := a.printer(cmd)

	mode := batch.ModeDirect
	target := dst
	if dstRoot != "" {
		mode = batch.ModeRED
		target = filepath.Join(dstRoot, "_")
	}

	if a.cfg.Link.Preflight {
		if err := linker.Preflight(src, target); err != nil {
			p.Error(err.Error())
			if errors.Is(err, linker.ErrSourceMissing) {
				suggest(p, src)
			}
			return err
		}
	}

	l, err := a.linker(p)
	if err != nil {
		return err
	}

	title := "hardbound link"
	if mode == batch.ModeRED {
		title = "hardbound link (RED)"
	}
	p.Banner(title, opts.DryRun)
	p.Section(filepath.Base(filepath.Clean(src)))

	start := time.Now()
	var stats linker.Stats
	if mode == batch.ModeRED {
		err = l.PlanRED(src, dstRoot, a.resolver(), opts, &stats)
	} else {
		if baseName == "" {
			baseName = filepath.Base(filepath.Clean(dst))
		}
		err = l.Plan(src, dst, baseName, opts, &stats)
	}
	elapsed := time.Since(start)
	p.Summary(stats, elapsed)

	recorded := dst
	if mode == batch.ModeRED {
		recorded = dstRoot
	}
	a.record(&history.Run{
		Command: "link", Mode: mode.String(), Src: src, Dst: recorded,
		DryRun: opts.DryRun, Items: 1, Stats: stats, Elapsed: elapsed,
	}, src)

	if opts.DryRun {
		p.Info("dry run: re-run with --commit to apply")
	}
	if err != nil {
		return err
	}
	if stats.Failed() {
		return fmt.Errorf("%w: %d errors", errFailures, stats.Errors)
	}
	return nil
}

// resolveSrc anchors a relative source under the configured library.
func (a *app) resolveSrc(src string) string {
	if filepath.IsAbs(src) || a.cfg.Paths.Library == "" {
		return src
	}
	if _, err := os.Stat(src); err == nil {
		return src
	}
	return filepath.Join(a.cfg.Paths.Library, src)
}

func suggest(p *display.Printer, src string) {
	matches := linker.SuggestSimilar(src)
	if len(matches) == 0 {
		return
	}
	p.Info("did you mean:")
	for _, m := range matches {
		p.Info(fmt.Sprintf("  %s (%.0f%%)", m.Path, m.Score*100))
	}
}
