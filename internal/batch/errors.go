package batch

import "errors"

// ErrBadLine indicates a batch line that is not "SRC|DST".
var ErrBadLine = errors.New("bad batch line (expected 'SRC|DST')")

// ErrOverCap indicates a resolved torrent path still exceeds the cap.
var ErrOverCap = errors.New("torrent path over cap")
