package domain

import "fmt"

// Snapshot is an immutable copy of a Session
type Snapshot struct {
	SelectedIndex   int
	Paused          bool
	CurrentTime     float64 // seconds
	Duration        float64 // seconds, 0 until metadata resolves
	Looping         bool
	Muted           bool
	PlaylistVisible bool
	PosterLoading   bool
	Unavailable     bool
	Load            uint64 // counts sources handed to the media resource
}

// Progress returns how far through the track playback is, in [0, 1].
// It is 0 while the duration is unknown.
func (s Snapshot) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := s.CurrentTime / s.Duration
	switch {
	case p != p || p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Observer is notified with the new state after every change
type Observer func(Snapshot)

// Session holds the playback state of a mounted player.
// It is not safe for concurrent use: every call must come from the
// goroutine that dispatches player intents and media events.
type Session struct {
	catalogLen int
	state      Snapshot
	observers  []Observer
}

// NewSession creates a session for a catalog of catalogLen tracks,
// positioned on the first track and paused
func NewSession(catalogLen int) (*Session, error) {
	if catalogLen < 1 {
		return nil, ErrEmptyCatalog
	}
	return &Session{
		catalogLen: catalogLen,
		state: Snapshot{
			SelectedIndex: 0,
			Paused:        true,
		},
	}, nil
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	return s.state
}

// Observe registers fn to be called after each state change
func (s *Session) Observe(fn Observer) {
	s.observers = append(s.observers, fn)
}

func (s *Session) update(mutate func(*Snapshot)) {
	before := s.state
	mutate(&s.state)
	if before == s.state {
		return
	}
	snap := s.state
	for _, fn := range s.observers {
		fn(snap)
	}
}

// SetSelectedIndex selects the track at index i
func (s *Session) SetSelectedIndex(i int) error {
	if i < 0 || i >= s.catalogLen {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, s.catalogLen)
	}
	s.update(func(st *Snapshot) { st.SelectedIndex = i })
	return nil
}

func (s *Session) SetPaused(paused bool) {
	s.update(func(st *Snapshot) { st.Paused = paused })
}

func (s *Session) SetCurrentTime(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	s.update(func(st *Snapshot) { st.CurrentTime = seconds })
}

// SetDuration records the resolved track length; non-positive values mean unknown
func (s *Session) SetDuration(seconds float64) {
	if seconds < 0 || seconds != seconds {
		seconds = 0
	}
	s.update(func(st *Snapshot) { st.Duration = seconds })
}

func (s *Session) SetLooping(looping bool) {
	s.update(func(st *Snapshot) { st.Looping = looping })
}

func (s *Session) SetMuted(muted bool) {
	s.update(func(st *Snapshot) { st.Muted = muted })
}

func (s *Session) SetPlaylistVisible(visible bool) {
	s.update(func(st *Snapshot) { st.PlaylistVisible = visible })
}

func (s *Session) SetPosterLoading(loading bool) {
	s.update(func(st *Snapshot) { st.PosterLoading = loading })
}

func (s *Session) SetUnavailable(unavailable bool) {
	s.update(func(st *Snapshot) { st.Unavailable = unavailable })
}

// BeginLoad starts a new source load: position and duration reset, the
// poster is marked loading and the availability flag clears, all in one
// change. It returns the new Load count.
func (s *Session) BeginLoad() uint64 {
	s.update(func(st *Snapshot) {
		st.Load++
		st.CurrentTime = 0
		st.Duration = 0
		st.PosterLoading = true
		st.Unavailable = false
	})
	return s.state.Load
}
