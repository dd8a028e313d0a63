package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyCatalog is returned when a catalog would hold no tracks
	ErrEmptyCatalog = errors.New("catalog has no tracks")
	// ErrIndexOutOfRange is returned for an index outside [0, catalog length)
	ErrIndexOutOfRange = errors.New("track index out of range")
)

const (
	audioExt  = ".mp3"
	posterExt = ".jpeg"
)

// Track represents one playable catalog entry
type Track struct {
	AudioPath  string
	PosterPath string
	Title      string
	Artist     string
	Length     time.Duration // display only, zero when unknown
}

// AudioSource returns the media source handed to the player engine
func (t Track) AudioSource() string {
	return t.AudioPath + audioExt
}

// PosterSource returns the poster image location, or "" if the track has none
func (t Track) PosterSource() string {
	if t.PosterPath == "" {
		return ""
	}
	return t.PosterPath + posterExt
}

// Catalog is the ordered, immutable list of tracks a player is mounted with
type Catalog struct {
	tracks []Track
}

// NewCatalog copies tracks into a new Catalog
func NewCatalog(tracks []Track) (*Catalog, error) {
	if len(tracks) == 0 {
		return nil, ErrEmptyCatalog
	}
	owned := make([]Track, len(tracks))
	copy(owned, tracks)
	return &Catalog{tracks: owned}, nil
}

// Len returns the number of tracks
func (c *Catalog) Len() int {
	return len(c.tracks)
}

// Track returns the track at index i
func (c *Catalog) Track(i int) (Track, error) {
	if !c.Contains(i) {
		return Track{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(c.tracks))
	}
	return c.tracks[i], nil
}

// Tracks returns a copy of all tracks in catalog order
func (c *Catalog) Tracks() []Track {
	out := make([]Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}

// Contains reports whether i is a valid index
func (c *Catalog) Contains(i int) bool {
	return i >= 0 && i < len(c.tracks)
}

// Next returns the index after i, wrapping to 0 past the last track
func (c *Catalog) Next(i int) int {
	return (i + 1) % len(c.tracks)
}

// Previous returns the index before i, wrapping to the last track before 0
func (c *Catalog) Previous(i int) int {
	n := len(c.tracks)
	return ((i-1)%n + n) % n
}
