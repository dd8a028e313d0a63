package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rivo/tview"
	"github.com/yhkl-dev/navideck/domain"
)

// FormatTime converts seconds to MM:SS format, or H:MM:SS past an hour
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// FormatDuration formats a catalog length, "--:--" when unknown
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "--:--"
	}
	return FormatTime(d.Seconds())
}

// FormatNowPlaying creates the now-playing panel text
func FormatNowPlaying(track domain.Track, snap domain.Snapshot, total int, poster string) string {
	name, artist := tview.Escape(track.Title), tview.Escape(track.Artist)

	var title string
	switch {
	case snap.Unavailable:
		title = fmt.Sprintf("[red]%s [darkgray](Unavailable)", name)
	case snap.Paused:
		title = fmt.Sprintf("[yellow]%s [darkgray](Paused)", name)
	default:
		title = fmt.Sprintf("[lightgreen]%s", name)
	}

	if snap.PosterLoading {
		poster = "[darkgray]Loading poster..."
	}

	return fmt.Sprintf(`%s

[white]Track %d/%d:
%s

[gray]Artist: [white]%s
[gray]Length: [white]%s`,
		poster, snap.SelectedIndex+1, total, title, artist, FormatDuration(track.Length))
}

// CreateProgressBar creates a visual progress bar
func CreateProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}
	filledWidth := int(progress * float64(width))

	var bar strings.Builder
	for i := 0; i < width; i++ {
		if i < filledWidth {
			bar.WriteString("[lightgreen]▓")
		} else {
			bar.WriteString("[darkgray]░")
		}
	}
	return bar.String() + fmt.Sprintf("[white] %.1f%%", progress*100)
}

// CreateProgressText creates the progress time display
func CreateProgressText(snap domain.Snapshot) string {
	if snap.Duration <= 0 {
		return fmt.Sprintf("[darkgray]%s/--:--", FormatTime(snap.CurrentTime))
	}
	return fmt.Sprintf("[darkgray]%s/%s", FormatTime(snap.CurrentTime), FormatTime(snap.Duration))
}

// CreateStatusLine renders the play, loop and mute indicators
func CreateStatusLine(snap domain.Snapshot) string {
	state := "[lightgreen]▶ Playing"
	if snap.Paused {
		state = "[yellow]⏸ Paused"
	}
	loop := "[darkgray]Loop: off"
	if snap.Looping {
		loop = "[lightgreen]Loop: on"
	}
	mute := "[darkgray]Sound: on"
	if snap.Muted {
		mute = "[red]Sound: muted"
	}
	return fmt.Sprintf("%s [darkgray]| %s [darkgray]| %s [darkgray]| ? (help)", state, loop, mute)
}

// fractionAt maps a column inside a progress bar of the given width to a
// seek fraction
func fractionAt(column, width int) (float64, bool) {
	if width <= 0 || column < 0 || column >= width {
		return 0, false
	}
	return float64(column) / float64(width), true
}
