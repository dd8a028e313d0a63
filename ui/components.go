package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const seekStep = 0.1

// createHomepage sets up the UI layout
func (a *App) createHomepage() {
	a.nowPlaying = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false).
		SetWrap(true)
	a.nowPlaying.SetBorder(false)

	a.progressBar = tview.NewTextView().
		SetDynamicColors(true)
	a.progressBar.SetBorder(false)

	a.statusBar = tview.NewTextView().
		SetDynamicColors(true)
	a.statusBar.SetBorder(false)

	// Initialize views
	a.helpView = NewHelpView(a)
	a.playlist = NewPlaylistView(a.player.Catalog().Tracks(), func(index int) {
		a.do("select track", func() error { return a.player.SelectTrack(index) })
	})

	a.setupInputHandlers()

	a.mainLayout = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.nowPlaying, 0, 1, true)

	a.rootFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.mainLayout, 0, 1, true).
		AddItem(a.progressBar, 1, 0, false).
		AddItem(a.statusBar, 1, 0, false)

	a.tviewApp.SetRoot(a.rootFlex, true)
	a.tviewApp.EnableMouse(true)
}

// registerKeyBindings maps keys to transport intents
func (a *App) registerKeyBindings() {
	bind := func(name string, intent func() error, keys []tcell.Key, runes ...rune) {
		a.keys.RegisterKeyBinding(KeyAction{
			name:    name,
			handler: func() { a.do(name, intent) },
		}, keys, runes)
	}

	bind("toggle play", a.player.TogglePlay, nil, ' ')
	bind("next", a.player.Next, []tcell.Key{tcell.KeyRight}, 'n')
	bind("previous", a.player.Previous, []tcell.Key{tcell.KeyLeft}, 'p')
	bind("toggle loop", a.player.ToggleLoop, nil, 'l')
	bind("toggle mute", a.player.ToggleMute, nil, 'm')
	bind("seek back", func() error { return a.seekBy(-seekStep) }, nil, ',')
	bind("seek forward", func() error { return a.seekBy(seekStep) }, nil, '.')
	bind("last track", func() error {
		return a.player.SelectTrack(a.player.Catalog().Len() - 1)
	}, nil, 'G')

	a.keys.RegisterSequence(KeyAction{
		name:    "first track",
		handler: func() { a.do("first track", func() error { return a.player.SelectTrack(0) }) },
	}, "gg")

	a.keys.RegisterKeyBinding(KeyAction{
		name:    "toggle playlist",
		handler: a.player.TogglePlaylistVisible,
	}, []tcell.Key{tcell.KeyTab}, []rune{'P'})
	a.keys.RegisterKeyBinding(KeyAction{
		name:    "help",
		handler: a.showHelp,
	}, nil, []rune{'?'})
	a.keys.RegisterKeyBinding(KeyAction{
		name:    "quit",
		handler: a.handleExit,
	}, []tcell.Key{tcell.KeyEscape, tcell.KeyCtrlC}, nil)
}

// setupInputHandlers sets up keyboard and mouse handlers
func (a *App) setupInputHandlers() {
	a.tviewApp.SetInputCapture(a.handleKey)

	a.progressBar.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		if action != tview.MouseLeftClick {
			return action, event
		}
		x, _ := event.Position()
		left, _, _, _ := a.progressBar.GetInnerRect()
		if f, ok := fractionAt(x-left, a.cfg.ProgressBarWidth); ok {
			a.do("seek", func() error { return a.player.SeekToFraction(f) })
		}
		return action, nil
	})
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	// Handle modal views first
	if a.helpView != nil && a.helpView.IsActive() {
		if event.Key() == tcell.KeyEscape || event.Rune() == '?' {
			a.helpView.Close()
			return nil
		}
		return event
	}

	if a.keys.HandleKey(event) {
		return nil
	}
	return event
}

// seekBy moves the playhead by delta of the track length
func (a *App) seekBy(delta float64) error {
	f := a.player.Snapshot().Progress() + delta
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return a.player.SeekToFraction(f)
}

// handleExit leaves the event loop; Run detaches the player afterwards
func (a *App) handleExit() {
	a.tviewApp.Stop()
}

// showHelp displays the help modal view
func (a *App) showHelp() {
	if a.helpView == nil {
		return
	}

	// Create modal container
	modal := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexColumn).
			AddItem(nil, 0, 1, false).
			AddItem(a.helpView.GetContainer(), 60, 0, true).
			AddItem(nil, 0, 1, false), 26, 0, true).
		AddItem(nil, 0, 1, false)

	// Add modal to root
	a.tviewApp.SetRoot(modal, true)
	a.helpView.Show()
}
