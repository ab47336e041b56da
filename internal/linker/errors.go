// internal/linker/errors.go
package linker

import "errors"

var (
	// ErrSourceMissing indicates the source path does not exist.
	ErrSourceMissing = errors.New("source does not exist")

	// ErrCrossDevice indicates source and destination live on different filesystems.
	ErrCrossDevice = errors.New("source and destination are on different filesystems")

	// ErrUnionDiskMix indicates a union-filesystem path mixed with a per-disk path.
	ErrUnionDiskMix = errors.New("union filesystem and per-disk paths mixed")

	// ErrSourceDir indicates the source directory could not be listed.
	ErrSourceDir = errors.New("cannot read source directory")

	// ErrDestDir indicates the destination directory could not be created.
	ErrDestDir = errors.New("cannot create destination directory")

	// ErrASINPolicy indicates a resolved folder or file name lost its ASIN.
	ErrASINPolicy = errors.New("ASIN missing from destination folder or file")
)
