package library

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/sirupsen/logrus"
	"github.com/tcolgate/mp3"
	"github.com/yhkl-dev/navideck/domain"
)

const sharedPoster = "cover"

// Directory builds the track list from the mp3 files in one folder.
// A sibling <name>.jpeg is the track poster, cover.jpeg the fallback.
type Directory struct {
	root   string
	logger logrus.FieldLogger
}

func NewDirectory(root string, logger logrus.FieldLogger) *Directory {
	return &Directory{root: root, logger: logger}
}

func (d *Directory) Load() ([]domain.Track, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read music directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != audioExt {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", d.root, domain.ErrEmptyCatalog)
	}
	sort.Strings(names)

	shared := ""
	if exists(filepath.Join(d.root, sharedPoster+posterExt)) {
		shared = filepath.Join(d.root, sharedPoster)
	}

	tracks := make([]domain.Track, 0, len(names))
	for _, name := range names {
		t, err := d.readTrack(name, shared)
		if err != nil {
			d.logger.WithFields(logrus.Fields{
				"file":  name,
				"error": err.Error(),
			}).Warn("Skipping unreadable track")
			continue
		}
		tracks = append(tracks, t)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%s: %w", d.root, domain.ErrEmptyCatalog)
	}

	d.logger.WithFields(logrus.Fields{
		"dir":    d.root,
		"tracks": len(tracks),
	}).Info("Scanned music directory")
	return tracks, nil
}

func (d *Directory) readTrack(name, shared string) (domain.Track, error) {
	stem := strings.TrimSuffix(name, audioExt)
	path := filepath.Join(d.root, name)

	f, err := os.Open(path)
	if err != nil {
		return domain.Track{}, err
	}
	defer f.Close()

	t := domain.Track{
		AudioPath: filepath.Join(d.root, stem),
		Title:     stem,
		Artist:    unknownArtist,
	}

	if meta, err := tag.ReadFrom(f); err == nil {
		if meta.Title() != "" {
			t.Title = meta.Title()
		}
		if meta.Artist() != "" {
			t.Artist = meta.Artist()
		}
	} else {
		d.logger.WithField("file", name).Debug("No tags, using file name")
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return domain.Track{}, err
	}
	length, err := mp3Length(f)
	if err != nil {
		d.logger.WithFields(logrus.Fields{
			"file":  name,
			"error": err.Error(),
		}).Debug("Could not measure track length")
	}
	t.Length = length

	if exists(filepath.Join(d.root, stem+posterExt)) {
		t.PosterPath = filepath.Join(d.root, stem)
	} else {
		t.PosterPath = shared
	}
	return t, nil
}

// mp3Length sums frame durations; a partially decodable file reports what was read
func mp3Length(r io.Reader) (time.Duration, error) {
	dec := mp3.NewDecoder(r)
	var total time.Duration
	var skipped int
	frames := 0
	for {
		var fr mp3.Frame
		if err := dec.Decode(&fr, &skipped); err != nil {
			if errors.Is(err, io.EOF) || frames > 0 {
				break
			}
			return 0, fmt.Errorf("no mp3 frames: %w", err)
		}
		total += fr.Duration()
		frames++
	}
	return total.Truncate(time.Second), nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
