package playback

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yhkl-dev/navideck/domain"
	"github.com/yhkl-dev/navideck/player"
)

var (
	// ErrDetached is returned by intents issued while no media is attached
	ErrDetached = errors.New("player is not attached")
	// ErrAttached is returned by a second Attach
	ErrAttached = errors.New("player is already attached")
)

// Options tune controller behaviour
type Options struct {
	// AutoAdvanceOnError skips to the next track when one cannot be loaded
	AutoAdvanceOnError bool
	StartLooping       bool
	StartMuted         bool
}

// Controller binds a playback session to the one live media resource.
// It is the only component that commands the resource and the only
// consumer of its events.
//
// Every method must be called from the goroutine served by the
// Dispatcher; resource events are posted there before they touch the
// session.
type Controller struct {
	catalog  *domain.Catalog
	session  *domain.Session
	media    player.Resource
	dispatch Dispatcher
	opts     Options
	logger   logrus.FieldLogger

	attached    bool
	unsubscribe func()
	failures    int

	// loading is set between Load and the first MetadataReady or LoadFailed
	loading       bool
	playWhenReady bool
}

// NewController creates a controller for catalog that will drive media
func NewController(catalog *domain.Catalog, media player.Resource, dispatch Dispatcher, opts Options, logger logrus.FieldLogger) (*Controller, error) {
	if catalog == nil {
		return nil, domain.ErrEmptyCatalog
	}
	session, err := domain.NewSession(catalog.Len())
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Controller{
		catalog:  catalog,
		session:  session,
		media:    media,
		dispatch: dispatch,
		opts:     opts,
		logger:   logger.WithField("session", uuid.NewString()),
	}, nil
}

// Session returns the state container observed by the rendering surface
func (c *Controller) Session() *domain.Session {
	return c.session
}

func (c *Controller) Catalog() *domain.Catalog {
	return c.catalog
}

// Snapshot returns the current playback state
func (c *Controller) Snapshot() domain.Snapshot {
	return c.session.Snapshot()
}

// CurrentTrack returns the selected track
func (c *Controller) CurrentTrack() domain.Track {
	track, _ := c.catalog.Track(c.session.Snapshot().SelectedIndex)
	return track
}

// Generation identifies the current load. Work started for a track (such as
// poster loading) reports back with the generation it was started under.
func (c *Controller) Generation() uint64 {
	return c.session.Snapshot().Load
}

// Attach mirrors loop and mute onto the resource, subscribes to its events
// and loads the selected track
func (c *Controller) Attach() error {
	if c.attached {
		return ErrAttached
	}
	c.session.SetLooping(c.opts.StartLooping)
	c.session.SetMuted(c.opts.StartMuted)

	snap := c.session.Snapshot()
	if err := c.command("set loop", func() error { return c.media.SetLoop(snap.Looping) }); err != nil {
		return err
	}
	if err := c.command("set muted", func() error { return c.media.SetMuted(snap.Muted) }); err != nil {
		return err
	}

	c.attached = true
	c.logger.WithField("tracks", c.catalog.Len()).Info("player attached")
	return c.loadSelected()
}

// Detach drops the event subscription and releases the media resource
func (c *Controller) Detach() error {
	if !c.attached {
		return ErrDetached
	}
	c.attached = false
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	if err := c.media.Pause(); err != nil {
		c.logger.WithError(err).Debug("pause on detach")
	}
	c.logger.Info("player detached")
	if err := c.media.Close(); err != nil {
		return fmt.Errorf("release media: %w", err)
	}
	return nil
}

// PosterLoaded reports that the poster started under generation finished
// loading. Reports for superseded tracks are ignored.
func (c *Controller) PosterLoaded(generation uint64) {
	if generation != c.Generation() {
		return
	}
	c.session.SetPosterLoading(false)
}

// loadSelected points the resource at the selected track, replacing the
// event subscription so nothing from the previous source is applied
func (c *Controller) loadSelected() error {
	snap := c.session.Snapshot()
	track, err := c.catalog.Track(snap.SelectedIndex)
	if err != nil {
		return err
	}

	gen := c.session.BeginLoad()
	c.resubscribe(gen)

	logger := c.logger.WithFields(logrus.Fields{
		"index":      snap.SelectedIndex,
		"track":      track.Title,
		"generation": gen,
	})
	logger.Debug("loading track")

	c.loading = true
	c.playWhenReady = false
	if err := c.media.Load(track.AudioSource()); err != nil {
		c.loading = false
		logger.WithError(err).Warn("load failed")
		c.loadFailed(err)
		return fmt.Errorf("load %s: %w", track.AudioSource(), err)
	}
	if !snap.Paused {
		return c.play()
	}
	return nil
}

func (c *Controller) resubscribe(gen uint64) {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.unsubscribe = c.media.Subscribe(func(ev player.Event) {
		c.dispatch.Post(func() { c.handleEvent(gen, ev) })
	})
}

func (c *Controller) handleEvent(gen uint64, ev player.Event) {
	if !c.attached || gen != c.Generation() {
		c.logger.WithFields(logrus.Fields{
			"event":      ev.Kind.String(),
			"generation": gen,
			"current":    c.Generation(),
		}).Debug("dropping stale media event")
		return
	}

	switch ev.Kind {
	case player.MetadataReady:
		c.loading = false
		c.failures = 0
		c.session.SetDuration(ev.Duration)
		if c.playWhenReady {
			c.playWhenReady = false
			if !c.session.Snapshot().Paused {
				if err := c.play(); err != nil {
					c.logger.WithError(err).Warn("deferred play failed")
				}
			}
		}
	case player.TimeUpdate:
		c.session.SetCurrentTime(ev.Position)
	case player.Ended:
		if c.session.Snapshot().Looping {
			// the resource restarts looping tracks itself
			return
		}
		c.session.SetPaused(false)
		if err := c.changeTrack(c.catalog.Next(c.session.Snapshot().SelectedIndex)); err != nil {
			c.logger.WithError(err).Warn("advance after end failed")
		}
	case player.LoadFailed:
		c.loading = false
		c.playWhenReady = false
		c.logger.WithError(ev.Err).Warn("track unavailable")
		c.loadFailed(ev.Err)
	}
}

// loadFailed marks the track unavailable and either skips ahead or settles
// on a paused display
func (c *Controller) loadFailed(err error) {
	c.session.SetUnavailable(true)
	c.failures++

	snap := c.session.Snapshot()
	if c.opts.AutoAdvanceOnError && !snap.Paused && c.failures < c.catalog.Len() {
		next := c.catalog.Next(snap.SelectedIndex)
		c.logger.WithField("next", next).Info("skipping unavailable track")
		if err := c.changeTrack(next); err != nil {
			c.logger.WithError(err).Debug("skip failed")
		}
		return
	}

	c.session.SetPaused(true)
	if err := c.media.Pause(); err != nil {
		c.logger.WithError(err).Debug("pause after failure")
	}
}

func (c *Controller) changeTrack(index int) error {
	if err := c.session.SetSelectedIndex(index); err != nil {
		return err
	}
	return c.loadSelected()
}

// play starts the resource. A resource still resolving its source may
// refuse with ErrNotLoaded; the session then stays playing and the command
// is repeated on MetadataReady, or LoadFailed decides what happens next.
func (c *Controller) play() error {
	err := c.media.Play()
	if err == nil {
		return nil
	}
	if c.loading && errors.Is(err, player.ErrNotLoaded) {
		c.logger.Debug("play deferred until the source resolves")
		c.playWhenReady = true
		return nil
	}
	c.logger.WithError(err).WithField("command", "play").Warn("media command failed")
	c.session.SetPaused(true)
	return fmt.Errorf("play: %w", err)
}

func (c *Controller) command(name string, fn func() error) error {
	if err := fn(); err != nil {
		c.logger.WithError(err).WithField("command", name).Warn("media command failed")
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
