package player

import (
	"errors"
	"sync"
)

// ErrNotLoaded is returned by commands that need a loaded source
var ErrNotLoaded = errors.New("no source loaded")

// Resource is the single live media element a player drives.
// Commands may be issued from one goroutine; events are delivered to
// listeners from the resource's own goroutines at unpredictable times.
type Resource interface {
	// Load replaces the current source and leaves playback paused
	Load(src string) error

	// Play starts or resumes playback of the loaded source
	Play() error

	// Pause stops playback, keeping the position
	Pause() error

	// SetCurrentTime moves the playback position, in seconds
	SetCurrentTime(seconds float64) error

	// SetLoop makes the resource restart the source by itself at its end
	SetLoop(loop bool) error

	// SetMuted silences output without affecting playback
	SetMuted(muted bool) error

	// Subscribe registers l for events. The returned func removes it;
	// events emitted after it returns are not delivered to l.
	Subscribe(l Listener) (unsubscribe func())

	// Close releases the loaded source and all engine resources
	Close() error
}

// EventKind identifies a media event
type EventKind int

const (
	MetadataReady EventKind = iota + 1
	TimeUpdate
	Ended
	LoadFailed
)

func (k EventKind) String() string {
	switch k {
	case MetadataReady:
		return "metadata-ready"
	case TimeUpdate:
		return "time-update"
	case Ended:
		return "ended"
	case LoadFailed:
		return "load-failed"
	}
	return "unknown"
}

// Event is emitted by a Resource
type Event struct {
	Kind     EventKind
	Duration float64 // MetadataReady
	Position float64 // TimeUpdate
	Err      error   // LoadFailed
}

// Listener receives resource events
type Listener func(Event)

// listenerSet is the subscription registry shared by the engines
type listenerSet struct {
	mux       sync.Mutex
	nextID    int
	listeners map[int]Listener
}

func (s *listenerSet) add(l Listener) func() {
	s.mux.Lock()
	if s.listeners == nil {
		s.listeners = make(map[int]Listener)
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mux.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mux.Lock()
			delete(s.listeners, id)
			s.mux.Unlock()
		})
	}
}

func (s *listenerSet) emit(ev Event) {
	s.mux.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mux.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}

func (s *listenerSet) len() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return len(s.listeners)
}
