package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/yhkl-dev/navideck/domain"
)

const playingMarker = "▶"

// PlaylistView lists the catalog and forwards the chosen entry
type PlaylistView struct {
	container *tview.Flex
	table     *tview.Table
	onSelect  func(index int)
	current   int
}

// NewPlaylistView creates the playlist panel for tracks
func NewPlaylistView(tracks []domain.Track, onSelect func(index int)) *PlaylistView {
	pv := &PlaylistView{
		onSelect: onSelect,
		current:  -1,
	}

	pv.table = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)

	// Setup header
	headerStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Attributes(tcell.AttrBold)
	pv.table.SetCell(0, 0, tview.NewTableCell("#").SetStyle(headerStyle))
	pv.table.SetCell(0, 1, tview.NewTableCell("Title").SetStyle(headerStyle))
	pv.table.SetCell(0, 2, tview.NewTableCell("Artist").SetStyle(headerStyle))
	pv.table.SetCell(0, 3, tview.NewTableCell("Length").SetStyle(headerStyle))

	rowStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, track := range tracks {
		row := i + 1

		pv.table.SetCell(row, 0,
			tview.NewTableCell(fmt.Sprintf("%d", row)).
				SetStyle(rowStyle.Foreground(tcell.ColorLightGreen)).
				SetAlign(tview.AlignRight))

		pv.table.SetCell(row, 1,
			tview.NewTableCell(tview.Escape(track.Title)).
				SetStyle(rowStyle).
				SetExpansion(2))

		pv.table.SetCell(row, 2,
			tview.NewTableCell(tview.Escape(track.Artist)).
				SetStyle(rowStyle.Foreground(tcell.ColorGray)).
				SetMaxWidth(20))

		pv.table.SetCell(row, 3,
			tview.NewTableCell(FormatDuration(track.Length)).
				SetStyle(rowStyle.Foreground(tcell.ColorGray)).
				SetAlign(tview.AlignRight))
	}

	pv.table.SetSelectedStyle(tcell.StyleDefault.
		Background(tcell.ColorDarkCyan).
		Foreground(tcell.ColorWhite))
	pv.table.SetSelectedFunc(func(row, column int) {
		pv.activate(row)
	})

	pv.container = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(pv.table, 0, 1, true)

	pv.container.SetBorder(true).
		SetTitle(" Playlist (Tab to hide) ").
		SetBorderColor(tcell.NewHexColor(0x00bcd4))

	return pv
}

// activate forwards a chosen table row as a catalog index
func (pv *PlaylistView) activate(row int) {
	if row < 1 || row >= pv.table.GetRowCount() {
		return
	}
	pv.onSelect(row - 1)
}

// Highlight marks the entry at index as the selected track
func (pv *PlaylistView) Highlight(index int) {
	if index == pv.current {
		return
	}
	if pv.current >= 0 {
		pv.table.GetCell(pv.current+1, 0).SetText(fmt.Sprintf("%d", pv.current+1))
	}
	pv.current = index
	pv.table.GetCell(index+1, 0).SetText(playingMarker)
	pv.table.Select(index+1, 0)
}

// GetContainer returns the playlist container
func (pv *PlaylistView) GetContainer() *tview.Flex {
	return pv.container
}
