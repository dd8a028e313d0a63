package ui

import (
	"errors"
	"sync"

	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"
	"github.com/yhkl-dev/navideck/config"
	"github.com/yhkl-dev/navideck/coverart"
	"github.com/yhkl-dev/navideck/domain"
	"github.com/yhkl-dev/navideck/playback"
)

// Player is the playback surface the UI drives; *playback.Controller
// implements it
type Player interface {
	Session() *domain.Session
	Catalog() *domain.Catalog
	Snapshot() domain.Snapshot
	CurrentTrack() domain.Track
	Generation() uint64
	PosterLoaded(generation uint64)

	Attach() error
	Detach() error

	TogglePlay() error
	Next() error
	Previous() error
	SelectTrack(index int) error
	SeekToFraction(f float64) error
	ToggleLoop() error
	ToggleMute() error
	TogglePlaylistVisible()
}

// App represents the TUI application
type App struct {
	tviewApp *tview.Application
	cfg      config.UIConfig
	player   Player
	covers   *coverart.Converter
	logger   logrus.FieldLogger
	keys     *KeyBindingManager

	// post runs fn on the tview event goroutine
	post     func(fn func())
	done     chan struct{}
	stopOnce sync.Once

	rootFlex    *tview.Flex
	mainLayout  *tview.Flex
	nowPlaying  *tview.TextView
	progressBar *tview.TextView
	statusBar   *tview.TextView
	helpView    *HelpView
	playlist    *PlaylistView

	playlistShown bool
	poster        string
	posterGen     uint64
}

// NewApp creates a new TUI application
func NewApp(cfg config.UIConfig, logger logrus.FieldLogger) *App {
	a := &App{
		tviewApp: tview.NewApplication(),
		cfg:      cfg,
		covers:   coverart.NewConverter(cfg.PosterWidth, cfg.PosterHeight),
		logger:   logger,
		keys:     NewKeyBindingManager(),
		done:     make(chan struct{}),
	}
	a.post = a.queueUpdate
	a.poster = a.covers.Placeholder()
	return a
}

// Dispatcher returns a playback.Dispatcher that runs work on the UI goroutine
func (a *App) Dispatcher() playback.Dispatcher {
	return playback.DispatcherFunc(a.queueUpdate)
}

func (a *App) queueUpdate(fn func()) {
	select {
	case <-a.done:
		return
	default:
	}
	a.tviewApp.QueueUpdateDraw(fn)
}

// Run attaches p, shows the UI until the user quits and detaches p again
func (a *App) Run(p Player) error {
	a.bind(p)
	a.tviewApp.QueueUpdate(func() {
		if err := a.player.Attach(); err != nil {
			a.logger.WithError(err).Error("Failed to attach player")
			a.statusBar.SetText("[red]" + tview.Escape(err.Error()))
		}
	})

	a.logger.Info("start navideck...")
	err := a.tviewApp.Run()

	// The event loop is gone; this goroutine owns the controller from here
	a.stopDispatch()
	if derr := a.player.Detach(); derr != nil && !errors.Is(derr, playback.ErrDetached) {
		a.logger.WithError(derr).Warn("Failed to detach player")
	}
	return err
}

// Stop stops the application
func (a *App) Stop() {
	if a.tviewApp != nil {
		a.tviewApp.Stop()
	}
}

func (a *App) stopDispatch() {
	a.stopOnce.Do(func() { close(a.done) })
}

// bind builds the layout for p and starts rendering its session
func (a *App) bind(p Player) {
	a.player = p
	a.createHomepage()
	a.registerKeyBindings()
	p.Session().Observe(a.render)
	if a.cfg.ShowPlaylist {
		p.TogglePlaylistVisible()
	}
	a.render(p.Snapshot())
}

// render redraws every widget from snap
func (a *App) render(snap domain.Snapshot) {
	track := a.player.CurrentTrack()
	if snap.PosterLoading && snap.Load != a.posterGen {
		a.posterGen = snap.Load
		a.loadPoster(snap.Load, track)
	}

	a.nowPlaying.SetText(FormatNowPlaying(track, snap, a.player.Catalog().Len(), a.poster))
	a.progressBar.SetText(CreateProgressBar(snap.Progress(), a.cfg.ProgressBarWidth) + "  " + CreateProgressText(snap))
	a.statusBar.SetText(CreateStatusLine(snap))
	a.playlist.Highlight(snap.SelectedIndex)
	a.setPlaylistShown(snap.PlaylistVisible)
}

// loadPoster converts the track poster off the UI goroutine
func (a *App) loadPoster(gen uint64, track domain.Track) {
	go func() {
		art, err := a.covers.ConvertFile(track.PosterSource())
		if err != nil {
			a.logger.WithError(err).WithField("poster", track.PosterSource()).Debug("Failed to load poster")
		}
		a.post(func() {
			if gen != a.player.Generation() {
				return
			}
			a.poster = art
			a.player.PosterLoaded(gen)
		})
	}()
}

func (a *App) setPlaylistShown(visible bool) {
	if visible == a.playlistShown {
		return
	}
	a.playlistShown = visible
	if visible {
		a.mainLayout.AddItem(a.playlist.GetContainer(), 0, 2, true)
	} else {
		a.mainLayout.RemoveItem(a.playlist.GetContainer())
	}
	if a.helpView == nil || !a.helpView.IsActive() {
		a.restoreFocus()
	}
}

func (a *App) restoreFocus() {
	if a.playlistShown {
		a.tviewApp.SetFocus(a.playlist.table)
		return
	}
	a.tviewApp.SetFocus(a.nowPlaying)
}

// do runs a transport intent and logs a failure
func (a *App) do(name string, intent func() error) {
	if err := intent(); err != nil {
		a.logger.WithError(err).WithField("action", name).Warn("Playback action failed")
	}
}
