// Package batch reads SRC|DST batch files and links each pair in order.
package batch

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Pair is one source folder and its destination.
type Pair struct {
	Line int
	Src  string
	Dst  string
}

// LineError is a malformed line that was skipped.
type LineError struct {
	Line    int
	Content string
	Err     error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Content)
}

func (e LineError) Unwrap() error {
	return e.Err
}

// ParseLine parses one batch line. Blank lines and lines starting with
// "#" return ok=false and no error.
func ParseLine(line string) (Pair, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Pair{}, false, nil
	}
	fields := strings.Split(line, "|")
	if len(fields) != 2 {
		return Pair{}, false, ErrBadLine
	}
	src, dst := strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1])
	if src == "" || dst == "" {
		return Pair{}, false, ErrBadLine
	}
	return Pair{Src: src, Dst: dst}, true, nil
}

// Read parses a whole batch file. Malformed lines are returned separately
// and never stop the read; the error is only for I/O failures.
func Read(r io.Reader) ([]Pair, []LineError, error) {
	var (
		pairs []Pair
		bad   []LineError
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		p, ok, err := ParseLine(sc.Text())
		if err != nil {
			bad = append(bad, LineError{Line: n, Content: strings.TrimSpace(sc.Text()), Err: err})
			continue
		}
		if !ok {
			continue
		}
		p.Line = n
		pairs = append(pairs, p)
	}
	if err := sc.Err(); err != nil {
		return pairs, bad, fmt.Errorf("read batch: %w", err)
	}
	return pairs, bad, nil
}
