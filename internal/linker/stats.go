package linker

import "fmt"

// Outcome classifies a single link attempt.
type Outcome int

const (
	Linked Outcome = iota
	Replaced
	Already
	Exists
	Excluded
	Skipped
	Errored
)

var outcomeNames = [...]string{
	Linked:   "linked",
	Replaced: "replaced",
	Already:  "already",
	Exists:   "exists",
	Excluded: "excluded",
	Skipped:  "skipped",
	Errored:  "errors",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// Stats counts link outcomes for one run. Every link attempt increments
// exactly one counter. The zero value is ready to use.
type Stats struct {
	Linked   int `json:"linked"`
	Replaced int `json:"replaced"`
	Already  int `json:"already"`
	Exists   int `json:"exists"`
	Excluded int `json:"excluded"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

// Add increments the counter for o.
func (s *Stats) Add(o Outcome) {
	switch o {
	case Linked:
		s.Linked++
	case Replaced:
		s.Replaced++
	case Already:
		s.Already++
	case Exists:
		s.Exists++
	case Excluded:
		s.Excluded++
	case Skipped:
		s.Skipped++
	case Errored:
		s.Errors++
	}
}

// Merge adds every counter of other into s.
func (s *Stats) Merge(other Stats) {
	s.Linked += other.Linked
	s.Replaced += other.Replaced
	s.Already += other.Already
	s.Exists += other.Exists
	s.Excluded += other.Excluded
	s.Skipped += other.Skipped
	s.Errors += other.Errors
}

// Total is the sum of all counters.
func (s Stats) Total() int {
	return s.Linked + s.Replaced + s.Already + s.Exists + s.Excluded + s.Skipped + s.Errors
}

// Failed reports whether any error was counted.
func (s Stats) Failed() bool {
	return s.Errors > 0
}

// Get returns the counter for o.
func (s Stats) Get(o Outcome) int {
	switch o {
	case Linked:
		return s.Linked
	case Replaced:
		return s.Replaced
	case Already:
		return s.Already
	case Exists:
		return s.Exists
	case Excluded:
		return s.Excluded
	case Skipped:
		return s.Skipped
	case Errored:
		return s.Errors
	}
	return 0
}

// Outcomes lists every outcome in summary order.
func Outcomes() []Outcome {
	return []Outcome{Linked, Replaced, Already, Exists, Excluded, Skipped, Errored}
}
