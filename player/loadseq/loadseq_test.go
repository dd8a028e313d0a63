package loadseq

import "testing"

type step int

const (
	load step = iota
	fileLoaded
	endFile
)

func TestTrackerSequences(t *testing.T) {
	tests := []struct {
		name   string
		steps  []step
		loaded []bool    // FileLoaded results, in order
		ends   []Outcome // EndFile results, in order
		active bool
	}{
		{
			name:   "load then end",
			steps:  []step{load, fileLoaded, endFile},
			loaded: []bool{true},
			ends:   []Outcome{Ended},
			active: false,
		},
		{
			name:  "end before loaded",
			steps: []step{load, endFile},
			ends:  []Outcome{Failed},
		},
		{
			name:   "replaced before first loaded",
			steps:  []step{load, load, endFile, fileLoaded, endFile},
			loaded: []bool{true},
			ends:   []Outcome{Replaced, Ended},
		},
		{
			name:   "file loaded for superseded source",
			steps:  []step{load, load, fileLoaded, endFile, fileLoaded},
			loaded: []bool{false, true},
			ends:   []Outcome{Replaced},
			active: true,
		},
		{
			name:   "replaced source does not mark the new one loaded",
			steps:  []step{load, fileLoaded, load, endFile, endFile},
			loaded: []bool{true},
			ends:   []Outcome{Replaced, Failed},
		},
		{
			name:   "three quick loads",
			steps:  []step{load, load, load, endFile, endFile, fileLoaded},
			loaded: []bool{true},
			ends:   []Outcome{Replaced, Replaced},
			active: true,
		},
		{
			name:   "stray end",
			steps:  []step{endFile, load, fileLoaded, endFile, endFile},
			loaded: []bool{true},
			ends:   []Outcome{Ignored, Ended, Ignored},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tr Tracker
			var loaded []bool
			var ends []Outcome
			for _, s := range tt.steps {
				switch s {
				case load:
					tr.Load()
				case fileLoaded:
					loaded = append(loaded, tr.FileLoaded())
				case endFile:
					ends = append(ends, tr.EndFile())
				}
			}
			if !equal(loaded, tt.loaded) {
				t.Errorf("FileLoaded = %v, want %v", loaded, tt.loaded)
			}
			if !equal(ends, tt.ends) {
				t.Errorf("EndFile = %v, want %v", ends, tt.ends)
			}
			if tr.Active() != tt.active {
				t.Errorf("Active = %v, want %v", tr.Active(), tt.active)
			}
		})
	}
}

func TestTrackerLoadedState(t *testing.T) {
	var tr Tracker
	if tr.Loaded() || tr.Active() {
		t.Fatal("zero tracker reports a source")
	}
	if seq := tr.Load(); seq != 1 {
		t.Errorf("first sequence = %d, want 1", seq)
	}
	if tr.Loaded() {
		t.Error("loaded before file-loaded")
	}
	tr.FileLoaded()
	if !tr.Loaded() {
		t.Error("not loaded after file-loaded")
	}
	tr.Load()
	if tr.Loaded() {
		t.Error("a new load kept the old loaded state")
	}
	if tr.Pending() != 2 {
		t.Errorf("Pending = %d, want 2", tr.Pending())
	}
}

func equal[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
