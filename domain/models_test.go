package domain

import (
	"errors"
	"math"
	"testing"
)

func testTracks(n int) []Track {
	tracks := make([]Track, n)
	for i := range tracks {
		tracks[i] = Track{AudioPath: "music/" + string(rune('a'+i)), Title: string(rune('A' + i))}
	}
	return tracks
}

func TestNewCatalogRejectsEmpty(t *testing.T) {
	if _, err := NewCatalog(nil); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("NewCatalog(nil) error = %v, want ErrEmptyCatalog", err)
	}
}

func TestCatalogIsolatedFromCaller(t *testing.T) {
	tracks := testTracks(2)
	c, err := NewCatalog(tracks)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	tracks[0].Title = "changed"

	got, _ := c.Track(0)
	if got.Title != "A" {
		t.Errorf("catalog track title = %q, want %q", got.Title, "A")
	}

	out := c.Tracks()
	out[1].Title = "changed"
	got, _ = c.Track(1)
	if got.Title != "B" {
		t.Errorf("Tracks() exposed internal slice")
	}
}

func TestCatalogTrackOutOfRange(t *testing.T) {
	c, _ := NewCatalog(testTracks(3))
	for _, i := range []int{-1, 3, 100} {
		if _, err := c.Track(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Track(%d) error = %v, want ErrIndexOutOfRange", i, err)
		}
	}
}

func TestCatalogWrapAround(t *testing.T) {
	for n := 1; n <= 5; n++ {
		c, _ := NewCatalog(testTracks(n))
		for i := 0; i < n; i++ {
			next := c.Next(i)
			prev := c.Previous(i)
			if next < 0 || next >= n || prev < 0 || prev >= n {
				t.Fatalf("n=%d i=%d: next=%d prev=%d out of range", n, i, next, prev)
			}
			if c.Previous(next) != i {
				t.Errorf("n=%d: Previous(Next(%d)) = %d", n, i, c.Previous(next))
			}
			if c.Next(prev) != i {
				t.Errorf("n=%d: Next(Previous(%d)) = %d", n, i, c.Next(prev))
			}
		}
	}

	c, _ := NewCatalog(testTracks(3))
	if got := c.Next(2); got != 0 {
		t.Errorf("Next(2) = %d, want 0", got)
	}
	if got := c.Previous(0); got != 2 {
		t.Errorf("Previous(0) = %d, want 2", got)
	}
}

func TestTrackSources(t *testing.T) {
	tr := Track{AudioPath: "songs/intro", PosterPath: "posters/intro"}
	if got := tr.AudioSource(); got != "songs/intro.mp3" {
		t.Errorf("AudioSource() = %q", got)
	}
	if got := tr.PosterSource(); got != "posters/intro.jpeg" {
		t.Errorf("PosterSource() = %q", got)
	}
	if got := (Track{}).PosterSource(); got != "" {
		t.Errorf("PosterSource() without poster = %q, want empty", got)
	}
}

func TestSnapshotProgress(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		duration float64
		want     float64
	}{
		{"unknown duration", 42, 0, 0},
		{"negative duration", 42, -1, 0},
		{"halfway", 100, 200, 0.5},
		{"start", 0, 200, 0},
		{"past end", 250, 200, 1},
		{"NaN position", math.NaN(), 200, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Snapshot{CurrentTime: tt.current, Duration: tt.duration}.Progress()
			if got != tt.want {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Errorf("Progress() = %v, not finite", got)
			}
		})
	}
}
