package linker

//go:generate mockgen -destination=mocks/mock_observer.go -package=mocks . Observer

// Action is the short label shown next to a status row.
type Action string

const (
	ActionLink    Action = "link"
	ActionReplace Action = "repl"
	ActionOK      Action = "ok"
	ActionExists  Action = "exist"
	ActionExclude Action = "excl."
	ActionSkip    Action = "skip"
	ActionError   Action = "err"
	ActionDup     Action = "dup"
	ActionMkdir   Action = "mkdir"
)

// Event describes one planner or executor decision.
type Event struct {
	Outcome Outcome
	Action  Action
	Src     string // empty when there is no source
	Dst     string
	DryRun  bool
	Err     error
}

// Observer receives progress from the planner and executor. Neither of
// them prints; all presentation lives behind this interface.
type Observer interface {
	// Row reports a single decision.
	Row(Event)
	// Section starts a new group of rows, usually one library item.
	Section(title string)
	// Mkdir reports creation (or planned creation) of a directory.
	Mkdir(dir string, dryRun bool)
}

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) Row(Event)          {}
func (NopObserver) Section(string)     {}
func (NopObserver) Mkdir(string, bool) {}

// Recorder keeps every event in memory.
type Recorder struct {
	Events   []Event
	Sections []string
	Dirs     []string
}

func (r *Recorder) Row(e Event)              { r.Events = append(r.Events, e) }
func (r *Recorder) Section(title string)     { r.Sections = append(r.Sections, title) }
func (r *Recorder) Mkdir(dir string, _ bool) { r.Dirs = append(r.Dirs, dir) }
