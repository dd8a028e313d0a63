// Package loadseq tracks which loadfile an engine event belongs to.
//
// An engine that replaces its source on every load reports one end-of-file
// per load, including for sources it was told to drop, and may report a
// file-loaded for a source that has already been replaced. Tracker pairs
// those reports with the loads that caused them.
package loadseq

// Outcome classifies an end-of-file report
type Outcome int

const (
	// Ignored is an end-of-file with no load outstanding
	Ignored Outcome = iota
	// Replaced is the end of a source superseded by a newer load
	Replaced
	// Ended is the end of the current source after it loaded
	Ended
	// Failed is the end of the current source before it ever loaded
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Replaced:
		return "replaced"
	case Ended:
		return "ended"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Tracker is not safe for concurrent use; the engine guards it with its own
// mutex.
type Tracker struct {
	// sequence numbers of loads whose end-of-file has not arrived yet
	outstanding []uint64
	last        uint64
	loaded      bool
}

// Load records a new load and returns its sequence number
func (t *Tracker) Load() uint64 {
	t.last++
	t.outstanding = append(t.outstanding, t.last)
	t.loaded = false
	return t.last
}

// FileLoaded records a file-loaded report. It returns true when the report
// belongs to the most recent load.
func (t *Tracker) FileLoaded() bool {
	if !t.current() {
		return false
	}
	t.loaded = true
	return true
}

// EndFile pairs an end-of-file report with the oldest outstanding load
func (t *Tracker) EndFile() Outcome {
	if len(t.outstanding) == 0 {
		return Ignored
	}
	seq := t.outstanding[0]
	t.outstanding = t.outstanding[1:]
	if seq != t.last {
		return Replaced
	}
	loaded := t.loaded
	t.loaded = false
	if !loaded {
		return Failed
	}
	return Ended
}

// Active reports whether the most recent load has not ended yet
func (t *Tracker) Active() bool {
	n := len(t.outstanding)
	return n > 0 && t.outstanding[n-1] == t.last
}

// Loaded reports whether the most recent load has opened and not ended
func (t *Tracker) Loaded() bool {
	return t.loaded
}

// Pending is the number of end-of-file reports still expected
func (t *Tracker) Pending() int {
	return len(t.outstanding)
}

func (t *Tracker) current() bool {
	return len(t.outstanding) > 0 && t.outstanding[0] == t.last
}
