// Package linker plans and creates hardlinks from a library item into a
// destination folder using canonical, tag-free file names.
package linker

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
)

// tmpSuffix names the staging link used when replacing a destination.
const tmpSuffix = ".hardbound-tmp"

// Linker creates hardlinks and reports every decision to an Observer.
type Linker struct {
	log    *slog.Logger
	obs    Observer
	policy Policy
	owner  *Ownership
}

// New creates a Linker. A nil observer discards rows.
func New(log *slog.Logger, obs Observer, policy Policy) *Linker {
	if log == nil {
		log = slog.Default()
	}
	if obs == nil {
		obs = NopObserver{}
	}
	return &Linker{log: log, obs: obs, policy: policy}
}

// SetOwnership enables permission and ownership changes on created links
// and directories. Pass nil to disable.
func (l *Linker) SetOwnership(o *Ownership) {
	l.owner = o
}

// Policy returns the exclusion policy in use.
func (l *Linker) Policy() Policy {
	return l.policy
}

// Link hardlinks src to dst and classifies the result. Each call counts
// exactly one outcome in stats. Filesystem errors are logged and counted,
// never returned. Excluded destinations are never touched.
func (l *Linker) Link(src, dst string, force, dryRun bool, stats *Stats) Outcome {
	log := l.log.With("src", src, "dst", dst, "force", force, "dry_run", dryRun)

	out, action, err := l.link(log, src, dst, force, dryRun)
	stats.Add(out)
	l.obs.Row(Event{Outcome: out, Action: action, Src: src, Dst: dst, DryRun: dryRun, Err: err})
	return out
}

func (l *Linker) link(log *slog.Logger, src, dst string, force, dryRun bool) (Outcome, Action, error) {
	if src == "" {
		log.Warn("link.skip_invalid_src", "reason", "invalid_source")
		return Skipped, ActionSkip, nil
	}

	if !dryRun {
		if _, err := os.Stat(src); err != nil {
			log.Warn("link.skip_missing_src", "reason", "source_not_found", "error", err)
			return Skipped, ActionSkip, nil
		}
	}

	if l.policy.Excluded(dst) {
		log.Debug("link.skip_excluded", "reason", "destination_excluded")
		return Excluded, ActionExclude, nil
	}

	exists, err := pathExists(dst)
	if err != nil {
		log.Error("link.error", "action", "stat", "error", err)
		return Errored, ActionError, err
	}

	if exists && SameInode(src, dst) {
		log.Debug("link.skip_already_linked", "reason", "same_inode")
		return Already, ActionOK, nil
	}

	if exists && force {
		if dryRun {
			log.Info("link.replaced", "action", "replace", "mode", "dry_run")
			return Replaced, ActionReplace, nil
		}
		if err := replace(src, dst); err != nil {
			log.Error("link.error", "action", "replace", "error", err)
			return Errored, ActionError, err
		}
		l.applyFile(log, dst)
		log.Info("link.replaced", "action", "replace", "mode", "commit")
		return Replaced, ActionReplace, nil
	}

	if exists {
		log.Debug("link.exists", "reason", "destination_exists_no_force")
		return Exists, ActionExists, nil
	}

	if dryRun {
		log.Info("link.created", "action", "create", "mode", "dry_run")
		return Linked, ActionLink, nil
	}
	if err := os.Link(src, dst); err != nil {
		log.Error("link.error", "action", "create", "error", err)
		return Errored, ActionError, err
	}
	l.applyFile(log, dst)
	log.Info("link.created", "action", "create", "mode", "commit")
	return Linked, ActionLink, nil
}

// replace swaps dst for a hardlink to src. The new link is staged next to
// dst and renamed over it, so dst is never left missing.
func replace(src, dst string) error {
	tmp := dst + tmpSuffix
	_ = os.Remove(tmp)
	if err := os.Link(src, tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (l *Linker) applyFile(log *slog.Logger, path string) {
	if l.owner == nil {
		return
	}
	if err := l.owner.ApplyFile(path); err != nil {
		log.Error("ownership.file_failed", "error", err)
	}
}

// SameInode reports whether a and b are the same file (device and inode).
// Missing or unreadable paths are never the same.
func SameInode(a, b string) bool {
	sa, err := os.Stat(a)
	if err != nil {
		return false
	}
	sb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(sa, sb)
}

func pathExists(p string) (bool, error) {
	_, err := os.Lstat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ensureDir creates dir when missing. In dry-run it only reports intent.
func (l *Linker) ensureDir(dir string, dryRun bool) error {
	if ok, _ := pathExists(dir); ok {
		return nil
	}
	if dryRun {
		l.log.Debug("linker.mkdir", "dir", dir, "mode", "dry_run")
		l.obs.Mkdir(dir, true)
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	l.log.Debug("linker.mkdir", "dir", dir, "mode", "commit")
	l.obs.Mkdir(dir, false)
	if l.owner != nil {
		if err := l.owner.ApplyDir(dir); err != nil {
			l.log.Error("ownership.dir_failed", "dir", dir, "error", err)
		}
	}
	return nil
}
