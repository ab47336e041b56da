//go:build !unix

package linker

import "os"

// sameDevice cannot be determined here; Link reports the real error.
func sameDevice(_, _ os.FileInfo) bool {
	return true
}
