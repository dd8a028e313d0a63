package player

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

// BeepResource implements Resource for local MP3 files through the
// system speaker
type BeepResource struct {
	listeners listenerSet
	logger    logrus.FieldLogger
	tick      time.Duration
	open      func(string) (io.ReadCloser, error)

	loop atomic.Bool

	mux         sync.Mutex
	track       *beepTrack
	seq         uint64
	speakerRate beep.SampleRate
	muted       bool
	playing     bool

	cancel context.CancelFunc
	wg     conc.WaitGroup
	closed bool
}

type beepTrack struct {
	seq      uint64
	streamer beep.StreamSeekCloser
	format   beep.Format
	looper   *loopStreamer
	ctrl     *beep.Ctrl
	volume   *effects.Volume
}

// NewBeepResource creates a speaker-backed resource. tick is the cadence of
// TimeUpdate events while playing.
func NewBeepResource(ctx context.Context, tick time.Duration, logger logrus.FieldLogger) *BeepResource {
	if tick <= 0 {
		tick = 250 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(ctx)
	r := &BeepResource{
		logger: logger,
		tick:   tick,
		open:   func(path string) (io.ReadCloser, error) { return os.Open(path) },
		cancel: cancel,
	}
	r.wg.Go(func() { r.pollProgress(ctx) })
	return r
}

// Load decodes src and queues it paused. Decoding failures are reported
// asynchronously as LoadFailed, like any other engine.
func (r *BeepResource) Load(src string) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.closed {
		return ErrNotLoaded
	}

	r.releaseLocked()
	r.seq++
	seq := r.seq

	f, err := r.open(src)
	if err != nil {
		r.emitAsync(Event{Kind: LoadFailed, Err: fmt.Errorf("open %s: %w", src, err)})
		return nil
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		r.emitAsync(Event{Kind: LoadFailed, Err: fmt.Errorf("decode %s: %w", src, err)})
		return nil
	}

	if r.speakerRate != format.SampleRate {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(100*time.Millisecond)); err != nil {
			streamer.Close()
			r.emitAsync(Event{Kind: LoadFailed, Err: fmt.Errorf("init speaker: %w", err)})
			return nil
		}
		r.speakerRate = format.SampleRate
	}

	looper := &loopStreamer{
		src:  streamer,
		loop: &r.loop,
		onEnd: func() {
			r.wg.Go(func() { r.finish(seq) })
		},
	}
	ctrl := &beep.Ctrl{Streamer: looper, Paused: true}
	volume := &effects.Volume{Streamer: ctrl, Base: 2, Silent: r.muted}
	r.track = &beepTrack{
		seq:      seq,
		streamer: streamer,
		format:   format,
		looper:   looper,
		ctrl:     ctrl,
		volume:   volume,
	}
	r.playing = false
	speaker.Play(volume)

	duration := format.SampleRate.D(streamer.Len()).Seconds()
	r.emitAsync(Event{Kind: MetadataReady, Duration: duration})
	return nil
}

func (r *BeepResource) Play() error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.track == nil {
		return ErrNotLoaded
	}
	speaker.Lock()
	if r.track.looper.ended {
		// playing an ended track starts it over
		if err := r.track.streamer.Seek(0); err == nil {
			r.track.looper.ended = false
		}
	}
	r.track.ctrl.Paused = false
	speaker.Unlock()
	r.playing = true
	return nil
}

func (r *BeepResource) Pause() error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.track == nil {
		return nil
	}
	speaker.Lock()
	r.track.ctrl.Paused = true
	speaker.Unlock()
	r.playing = false
	return nil
}

func (r *BeepResource) SetCurrentTime(seconds float64) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.track == nil {
		return ErrNotLoaded
	}

	n := r.track.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	if last := r.track.streamer.Len() - 1; n > last {
		n = last
	}
	if n < 0 {
		n = 0
	}

	speaker.Lock()
	defer speaker.Unlock()
	if err := r.track.streamer.Seek(n); err != nil {
		return fmt.Errorf("seek to %.2fs: %w", seconds, err)
	}
	r.track.looper.ended = false
	return nil
}

func (r *BeepResource) SetLoop(loop bool) error {
	r.loop.Store(loop)
	return nil
}

func (r *BeepResource) SetMuted(muted bool) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.muted = muted
	if r.track != nil {
		speaker.Lock()
		r.track.volume.Silent = muted
		speaker.Unlock()
	}
	return nil
}

func (r *BeepResource) Subscribe(l Listener) func() {
	return r.listeners.add(l)
}

func (r *BeepResource) Close() error {
	r.mux.Lock()
	if r.closed {
		r.mux.Unlock()
		return nil
	}
	r.closed = true
	r.releaseLocked()
	r.mux.Unlock()

	r.cancel()
	r.wg.Wait()
	return nil
}

// releaseLocked stops and closes the current track; r.mux must be held
func (r *BeepResource) releaseLocked() {
	if r.track == nil {
		return
	}
	if r.speakerRate != 0 {
		speaker.Clear()
	}
	if err := r.track.streamer.Close(); err != nil {
		r.logger.WithError(err).Debug("closing decoder")
	}
	r.track = nil
	r.playing = false
}

func (r *BeepResource) finish(seq uint64) {
	r.mux.Lock()
	current := r.track != nil && r.track.seq == seq
	if current {
		r.playing = false
	}
	r.mux.Unlock()
	if current {
		r.listeners.emit(Event{Kind: Ended})
	}
}

func (r *BeepResource) emitAsync(ev Event) {
	r.wg.Go(func() { r.listeners.emit(ev) })
}

func (r *BeepResource) pollProgress(ctx context.Context) {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mux.Lock()
			if !r.playing || r.track == nil {
				r.mux.Unlock()
				continue
			}
			speaker.Lock()
			pos := r.track.format.SampleRate.D(r.track.streamer.Position()).Seconds()
			speaker.Unlock()
			r.mux.Unlock()
			r.listeners.emit(Event{Kind: TimeUpdate, Position: pos})
		case <-ctx.Done():
			return
		}
	}
}

// loopStreamer plays src to its end, then either rewinds it (looping) or
// reports the end once and keeps producing silence so a later seek or play
// can resume it without re-adding it to the speaker.
type loopStreamer struct {
	src   beep.StreamSeeker
	loop  *atomic.Bool
	onEnd func()
	ended bool
}

func (l *loopStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	rewound := false
	for n < len(samples) && !l.ended {
		m, more := l.src.Stream(samples[n:])
		n += m
		if more && m > 0 {
			rewound = false
			continue
		}
		if l.loop.Load() && !rewound && l.src.Len() > 0 {
			if err := l.src.Seek(0); err == nil {
				rewound = true
				continue
			}
		}
		l.ended = true
		if l.onEnd != nil {
			l.onEnd()
		}
	}
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (l *loopStreamer) Err() error {
	return l.src.Err()
}
