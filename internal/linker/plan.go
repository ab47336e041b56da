package linker

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmunix/hardbound/pkg/red"
)

// Options control one planning run.
type Options struct {
	AlsoCover bool // also link a plain cover.jpg when policy allows
	ZeroPad   bool // rewrite vol_N as vol_NN in the base name
	Force     bool // replace existing destinations
	DryRun    bool // report only, never touch the filesystem
}

// plainCover is the undecorated cover name some players look for.
const plainCover = "cover.jpg"

// Plan links every recognized file of srcDir into dstDir under canonical
// names derived from baseName.
//
// Entries are processed in lexicographic order. When several sources route
// to the same destination the first one wins and the rest are counted as
// skipped. Unrecognized files are ignored without being counted.
//
// The returned error is non-nil only when the item had to be abandoned
// (unreadable source, uncreatable destination); it has already been
// counted under Errors.
func (l *Linker) Plan(srcDir, dstDir, baseName string, opts Options, stats *Stats) error {
	log := l.log.With("src_dir", srcDir, "dst_dir", dstDir, "base_name", baseName,
		"force", opts.Force, "dry_run", opts.DryRun, "also_cover", opts.AlsoCover)

	if opts.ZeroPad {
		baseName = red.ZeroPadVolumes(baseName)
		log.Debug("linker.name_zero_padded", "new_base_name", baseName)
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		log.Error("linker.src_dir_not_found", "error", err)
		stats.Add(Errored)
		err = fmt.Errorf("%w: %s: %v", ErrSourceDir, srcDir, err)
		l.obs.Row(Event{Outcome: Errored, Action: ActionError, Src: srcDir, Dst: dstDir, DryRun: opts.DryRun, Err: err})
		return err
	}

	if err := l.ensureDir(dstDir, opts.DryRun); err != nil {
		log.Error("linker.mkdir_failed", "error", err)
		stats.Add(Errored)
		err = fmt.Errorf("%w: %s: %v", ErrDestDir, dstDir, err)
		l.obs.Row(Event{Outcome: Errored, Action: ActionError, Dst: dstDir, DryRun: opts.DryRun, Err: err})
		return err
	}

	if len(entries) == 0 {
		log.Warn("linker.no_files_found")
		return nil
	}

	outputs := Outputs(dstDir, baseName)
	log.Debug("linker.outputs_planned", "file_count", len(entries))

	claimed := make(map[string]string)
	var coverSrc string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		kind, ok := Route(name)
		if !ok {
			continue
		}
		src := filepath.Join(srcDir, name)
		if coverSrc == "" && isCoverSource(name) {
			coverSrc = src
		}

		dst := outputs[kind]
		if kind == KindM4A {
			dst = filepath.Join(dstDir, baseName+".m4a")
		}

		if first, taken := claimed[dst]; taken {
			log.Warn("linker.duplicate_slot", "src", src, "dst", dst, "kept", first)
			stats.Add(Skipped)
			l.obs.Row(Event{Outcome: Skipped, Action: ActionDup, Src: src, Dst: dst, DryRun: opts.DryRun})
			continue
		}
		claimed[dst] = src

		l.Link(src, dst, opts.Force, opts.DryRun, stats)
	}

	if opts.AlsoCover {
		l.linkPlainCover(log, outputs[KindJPG], filepath.Join(dstDir, plainCover), coverSrc, opts, stats)
	}
	return nil
}

// linkPlainCover links cover.jpg from the canonical image. In dry-run,
// before the canonical image exists, the first source image stands in.
func (l *Linker) linkPlainCover(log *slog.Logger, named, plain, coverSrc string, opts Options, stats *Stats) {
	if l.policy.Excluded(plain) {
		log.Debug("linker.cover_excluded", "plain_cover", plain)
		l.obs.Row(Event{Outcome: Excluded, Action: ActionExclude, Src: named, Dst: plain, DryRun: opts.DryRun})
		return
	}

	namedExists, _ := pathExists(named)
	if !namedExists && !opts.DryRun {
		return
	}
	src := named
	if !namedExists && coverSrc != "" {
		src = coverSrc
	}
	l.Link(src, plain, opts.Force, opts.DryRun, stats)
	log.Debug("linker.cover_link_attempted", "named_cover", named, "plain_cover", plain)
}

// PlanRED resolves a RED-compliant destination under dstRoot from the name
// of srcDir and links into it.
//
// Both the resolved folder and file must still carry the ASIN; otherwise
// ErrASINPolicy is returned before anything is linked. Parse and policy
// failures are counted under Errors.
func (l *Linker) PlanRED(srcDir, dstRoot string, r *red.Resolver, opts Options, stats *Stats) error {
	log := l.log.With("src_dir", srcDir, "dst_root", dstRoot, "force", opts.Force, "dry_run", opts.DryRun)

	tok, res, err := r.ResolveDir(srcDir, dstRoot, "")
	if err != nil {
		log.Error("linker.red_resolve_failed", "error", err)
		stats.Add(Errored)
		l.obs.Row(Event{Outcome: Errored, Action: ActionError, Src: srcDir, Dst: dstRoot, DryRun: opts.DryRun, Err: err})
		return err
	}
	log = log.With("asin", tok.ASIN, "title", tok.Title, "volume", tok.Volume)

	if err := enforceASIN(res.Folder, res.File, tok.ASIN); err != nil {
		log.Error("policy.asin_missing", "folder", res.Folder, "file", res.File,
			"in_folder", strings.Contains(res.Folder, tok.ASIN), "in_file", strings.Contains(res.File, tok.ASIN))
		stats.Add(Errored)
		l.obs.Row(Event{Outcome: Errored, Action: ActionError, Src: srcDir, Dst: res.Dir, DryRun: opts.DryRun, Err: err})
		return err
	}
	if !res.Fits(r.Cap()) {
		log.Warn("linker.red_over_cap", "path_len", res.Length, "path_cap", r.Cap())
	}

	log.Debug("linker.red_paths_processed", "dst_dir", res.Dir, "filename", res.File,
		"phase", res.Phase.String(), "policy_validated", true)

	return l.Plan(srcDir, res.Dir, res.Stem(), opts, stats)
}

func enforceASIN(folder, file, asin string) error {
	if asin == "" || !strings.Contains(folder, asin) || !strings.Contains(file, asin) {
		return fmt.Errorf("%w: %s", ErrASINPolicy, asin)
	}
	return nil
}
