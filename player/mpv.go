package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"github.com/wildeyedskies/go-mpv/mpv"
	"github.com/yhkl-dev/navideck/mpvplayer"
	"github.com/yhkl-dev/navideck/player/loadseq"
)

// MPVResource implements Resource on top of libmpv
type MPVResource struct {
	instance  *mpvplayer.Mpvplayer
	listeners listenerSet
	logger    logrus.FieldLogger
	tick      time.Duration

	mux sync.Mutex
	// every loadfile yields exactly one END_FILE
	loads   loadseq.Tracker
	playing bool

	cancel context.CancelFunc
	wg     conc.WaitGroup
	closed bool
}

// NewMPVResource creates a libmpv instance and starts its event pump.
// tick is the cadence of TimeUpdate events while playing.
func NewMPVResource(ctx context.Context, tick time.Duration, logger logrus.FieldLogger) (*MPVResource, error) {
	mpvInstance, err := mpvplayer.CreateMPVInstance()
	if err != nil {
		return nil, fmt.Errorf("failed to create MPV instance: %w", err)
	}
	if tick <= 0 {
		tick = 250 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &MPVResource{
		logger: logger,
		tick:   tick,
		cancel: cancel,
	}
	p.instance = &mpvplayer.Mpvplayer{
		Mpv:          mpvInstance,
		EventChannel: createEventListener(ctx, &p.wg, mpvInstance),
	}

	p.wg.Go(func() { p.handleEvents(ctx) })
	p.wg.Go(func() { p.pollProgress(ctx) })
	return p, nil
}

func (p *MPVResource) Load(src string) error {
	p.mux.Lock()
	defer p.mux.Unlock()
	if p.closed {
		return ErrNotLoaded
	}

	if err := p.instance.LoadFile(src); err != nil {
		return fmt.Errorf("loadfile %s: %w", src, err)
	}
	seq := p.loads.Load()
	p.playing = false
	p.logger.WithFields(logrus.Fields{"source": src, "seq": seq, "pending": p.loads.Pending()}).Debug("loadfile issued")
	return nil
}

func (p *MPVResource) Play() error {
	p.mux.Lock()
	defer p.mux.Unlock()
	if !p.loads.Active() {
		return ErrNotLoaded
	}
	if err := p.instance.SetFlag("pause", false); err != nil {
		p.syncPaused()
		return err
	}
	p.playing = true
	return nil
}

func (p *MPVResource) Pause() error {
	p.mux.Lock()
	defer p.mux.Unlock()
	if !p.loads.Active() {
		return nil
	}
	if err := p.instance.SetFlag("pause", true); err != nil {
		p.syncPaused()
		return err
	}
	p.playing = false
	return nil
}

// syncPaused re-reads the pause property after a failed pause toggle so
// progress polling follows what mpv is actually doing
func (p *MPVResource) syncPaused() {
	paused, err := p.instance.IsPaused()
	if err != nil {
		p.logger.WithError(err).Debug("pause state unknown")
		return
	}
	p.playing = !paused
}

func (p *MPVResource) SetCurrentTime(seconds float64) error {
	p.mux.Lock()
	defer p.mux.Unlock()
	if !p.loads.Loaded() {
		return ErrNotLoaded
	}
	return p.instance.Seek(seconds)
}

func (p *MPVResource) SetLoop(loop bool) error {
	return p.instance.SetLoopFile(loop)
}

func (p *MPVResource) SetMuted(muted bool) error {
	return p.instance.SetFlag("mute", muted)
}

func (p *MPVResource) Subscribe(l Listener) func() {
	return p.listeners.add(l)
}

// Close stops the event pump and destroys the mpv handle
func (p *MPVResource) Close() error {
	p.mux.Lock()
	if p.closed {
		p.mux.Unlock()
		return nil
	}
	p.closed = true
	p.mux.Unlock()

	p.cancel()
	p.wg.Wait()
	p.instance.Command([]string{"quit"})
	p.instance.TerminateDestroy()
	return nil
}

func (p *MPVResource) handleEvents(ctx context.Context) {
	for {
		select {
		case e, ok := <-p.instance.EventChannel:
			if !ok {
				return
			}
			p.handleEvent(e)
		case <-ctx.Done():
			return
		}
	}
}

func (p *MPVResource) handleEvent(e *mpv.Event) {
	switch e.Event_Id {
	case mpv.EVENT_FILE_LOADED:
		p.mux.Lock()
		current := p.loads.FileLoaded()
		p.mux.Unlock()
		if !current {
			return
		}
		duration, err := p.instance.GetDuration()
		if err != nil {
			p.logger.WithError(err).Debug("duration not available yet")
			return
		}
		p.listeners.emit(Event{Kind: MetadataReady, Duration: duration})

	case mpv.EVENT_END_FILE:
		p.mux.Lock()
		outcome := p.loads.EndFile()
		if outcome == loadseq.Ended || outcome == loadseq.Failed {
			p.playing = false
		}
		p.mux.Unlock()

		switch outcome {
		case loadseq.Failed:
			p.listeners.emit(Event{Kind: LoadFailed, Err: fmt.Errorf("mpv could not open source")})
		case loadseq.Ended:
			p.listeners.emit(Event{Kind: Ended})
		}
	}
}

func (p *MPVResource) pollProgress(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.mux.Lock()
			active := p.playing && p.loads.Loaded()
			p.mux.Unlock()
			if !active {
				continue
			}
			pos, err := p.instance.GetProgress()
			if err != nil || pos < 0 {
				continue
			}
			p.listeners.emit(Event{Kind: TimeUpdate, Position: pos})
		case <-ctx.Done():
			return
		}
	}
}

// createEventListener pumps mpv events into a channel until ctx is done
func createEventListener(ctx context.Context, wg *conc.WaitGroup, m *mpv.Mpv) chan *mpv.Event {
	c := make(chan *mpv.Event)
	wg.Go(func() {
		defer close(c)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				e := m.WaitEvent(1)
				if e == nil {
					time.Sleep(10 * time.Millisecond)
					continue
				}
				select {
				case c <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	})
	return c
}
