package playback

import (
	"errors"
	"fmt"

	"github.com/yhkl-dev/navideck/domain"
)

// ErrInvalidFraction is returned by SeekToFraction for values outside [0, 1]
var ErrInvalidFraction = errors.New("seek fraction must be within [0, 1]")

// TogglePlay flips between playing and paused
func (c *Controller) TogglePlay() error {
	if !c.attached {
		return ErrDetached
	}
	paused := !c.session.Snapshot().Paused
	c.session.SetPaused(paused)
	if paused {
		return c.command("pause", c.media.Pause)
	}
	return c.play()
}

// Next moves to the following track, wrapping after the last one, and plays it
func (c *Controller) Next() error {
	if !c.attached {
		return ErrDetached
	}
	c.failures = 0
	c.session.SetPaused(false)
	return c.changeTrack(c.catalog.Next(c.session.Snapshot().SelectedIndex))
}

// Previous moves to the preceding track, wrapping before the first one, and plays it
func (c *Controller) Previous() error {
	if !c.attached {
		return ErrDetached
	}
	c.failures = 0
	c.session.SetPaused(false)
	return c.changeTrack(c.catalog.Previous(c.session.Snapshot().SelectedIndex))
}

// SelectTrack jumps to the track at index and plays it. Selecting the
// track that is already loaded resumes it instead of reloading.
func (c *Controller) SelectTrack(index int) error {
	if !c.attached {
		return ErrDetached
	}
	if !c.catalog.Contains(index) {
		return fmt.Errorf("%w: %d not in [0, %d)", domain.ErrIndexOutOfRange, index, c.catalog.Len())
	}
	c.failures = 0

	snap := c.session.Snapshot()
	if index == snap.SelectedIndex && !snap.Unavailable {
		if !snap.Paused {
			return nil
		}
		c.session.SetPaused(false)
		return c.play()
	}

	c.session.SetPaused(false)
	return c.changeTrack(index)
}

// SeekToFraction moves playback to fraction f of the track, resuming it if
// paused. It does nothing until the track duration is known.
func (c *Controller) SeekToFraction(f float64) error {
	if !c.attached {
		return ErrDetached
	}
	if f != f || f < 0 || f > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidFraction, f)
	}

	snap := c.session.Snapshot()
	if snap.Duration <= 0 {
		return nil
	}

	if snap.Paused {
		c.session.SetPaused(false)
		if err := c.play(); err != nil {
			return err
		}
	}

	target := f * snap.Duration
	if err := c.command("seek", func() error { return c.media.SetCurrentTime(target) }); err != nil {
		return err
	}
	c.session.SetCurrentTime(target)
	return nil
}

// ToggleLoop flips whether the current track repeats
func (c *Controller) ToggleLoop() error {
	if !c.attached {
		return ErrDetached
	}
	looping := !c.session.Snapshot().Looping
	c.session.SetLooping(looping)
	return c.command("set loop", func() error { return c.media.SetLoop(looping) })
}

// ToggleMute flips whether output is silenced
func (c *Controller) ToggleMute() error {
	if !c.attached {
		return ErrDetached
	}
	muted := !c.session.Snapshot().Muted
	c.session.SetMuted(muted)
	return c.command("set muted", func() error { return c.media.SetMuted(muted) })
}

// TogglePlaylistVisible shows or hides the playlist; it never affects playback
func (c *Controller) TogglePlaylistVisible() {
	c.session.SetPlaylistVisible(!c.session.Snapshot().PlaylistVisible)
}
