package mpvplayer

import (
	"fmt"
	"strconv"

	"github.com/wildeyedskies/go-mpv/mpv"
)

// Mpvplayer wraps a libmpv handle with the commands the player engine needs
type Mpvplayer struct {
	*mpv.Mpv
	EventChannel chan *mpv.Event
}

func (m *Mpvplayer) GetProgress() (float64, error) {
	pos, err := m.GetProperty("time-pos", mpv.FORMAT_DOUBLE)
	if err != nil {
		return 0, err
	}
	return pos.(float64), nil
}

func (m *Mpvplayer) GetDuration() (float64, error) {
	duration, err := m.GetProperty("duration", mpv.FORMAT_DOUBLE)
	if err != nil {
		return 0, err
	}
	return duration.(float64), nil
}

// LoadFile replaces the current file, paused
func (m *Mpvplayer) LoadFile(src string) error {
	if err := m.SetFlag("pause", true); err != nil {
		return err
	}
	return m.Command([]string{"loadfile", src, "replace"})
}

func (m *Mpvplayer) Seek(seconds float64) error {
	return m.Command([]string{"seek", strconv.FormatFloat(seconds, 'f', 3, 64), "absolute"})
}

func (m *Mpvplayer) SetLoopFile(loop bool) error {
	value := "no"
	if loop {
		value = "inf"
	}
	return m.Command([]string{"set", "loop-file", value})
}

// SetFlag sets a yes/no property such as pause or mute
func (m *Mpvplayer) SetFlag(name string, on bool) error {
	value := "no"
	if on {
		value = "yes"
	}
	if err := m.Command([]string{"set", name, value}); err != nil {
		return fmt.Errorf("set %s=%s: %w", name, value, err)
	}
	return nil
}

func (m *Mpvplayer) IsPaused() (bool, error) {
	pause, err := m.GetProperty("pause", mpv.FORMAT_FLAG)
	if err != nil {
		return false, err
	}
	return pause.(bool), nil
}

func CreateMPVInstance() (*mpv.Mpv, error) {
	mpvInstance := mpv.Create()

	mpvInstance.SetOptionString("audio-display", "no")
	mpvInstance.SetOptionString("video", "no")
	mpvInstance.SetOptionString("idle", "yes")

	err := mpvInstance.Initialize()
	if err != nil {
		mpvInstance.TerminateDestroy()
		return nil, err
	}
	return mpvInstance, nil
}
