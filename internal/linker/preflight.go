package linker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Unraid exposes the same files through a union mount and per-disk
// mounts; hardlinks between the two views fail.
const (
	unionPrefix = "/mnt/user/"
	diskPrefix  = "/mnt/disk"
)

// Preflight checks that src can be hardlinked to dst before planning.
// These checks are advisory; Link still handles every filesystem error.
func Preflight(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSourceMissing, src)
	}

	if anc, info := existingAncestor(filepath.Dir(filepath.Clean(dst))); info != nil {
		if !sameDevice(srcInfo, info) {
			return fmt.Errorf("%w: %s and %s", ErrCrossDevice, src, anc)
		}
	}

	if mixesUnionAndDisk(src, dst) {
		return fmt.Errorf("%w: %s and %s", ErrUnionDiskMix, src, dst)
	}
	return nil
}

func mixesUnionAndDisk(src, dst string) bool {
	return (strings.Contains(src, unionPrefix) && strings.Contains(dst, diskPrefix)) ||
		(strings.Contains(src, diskPrefix) && strings.Contains(dst, unionPrefix))
}

// existingAncestor walks up from p to the first path that exists.
func existingAncestor(p string) (string, os.FileInfo) {
	for {
		if info, err := os.Stat(p); err == nil {
			return p, info
		}
		parent := filepath.Dir(p)
		if parent == p {
			return "", nil
		}
		p = parent
	}
}
