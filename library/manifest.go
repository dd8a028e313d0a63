package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"github.com/yhkl-dev/navideck/domain"
)

// Manifest reads tracks from a TOML file of [[track]] tables:
//
//	[[track]]
//	audio  = "audio/intro"
//	poster = "posters/intro"
//	title  = "Intro"
//	artist = "Someone"
//	length = "03:41"
type Manifest struct {
	path   string
	logger logrus.FieldLogger
}

type manifestFile struct {
	Tracks []manifestTrack `toml:"track"`
}

type manifestTrack struct {
	Audio  string `toml:"audio"`
	Poster string `toml:"poster"`
	Title  string `toml:"title"`
	Artist string `toml:"artist"`
	Length string `toml:"length"`
}

func NewManifest(path string, logger logrus.FieldLogger) *Manifest {
	return &Manifest{path: path, logger: logger}
}

func (m *Manifest) Load() ([]domain.Track, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var file manifestFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", m.path, err)
	}
	if len(file.Tracks) == 0 {
		return nil, fmt.Errorf("%s: %w", m.path, domain.ErrEmptyCatalog)
	}

	base := filepath.Dir(m.path)
	tracks := make([]domain.Track, 0, len(file.Tracks))
	for i, entry := range file.Tracks {
		if entry.Audio == "" {
			return nil, fmt.Errorf("%s: track %d has no audio", m.path, i+1)
		}
		length, err := parseLength(entry.Length)
		if err != nil {
			return nil, fmt.Errorf("%s: track %d: %w", m.path, i+1, err)
		}

		t := domain.Track{
			AudioPath: resolve(base, strings.TrimSuffix(entry.Audio, audioExt)),
			Title:     entry.Title,
			Artist:    entry.Artist,
			Length:    length,
		}
		if entry.Poster != "" {
			t.PosterPath = resolve(base, strings.TrimSuffix(entry.Poster, posterExt))
		}
		if t.Title == "" {
			t.Title = filepath.Base(t.AudioPath)
		}
		if t.Artist == "" {
			t.Artist = unknownArtist
		}
		tracks = append(tracks, t)
	}

	m.logger.WithFields(logrus.Fields{
		"manifest": m.path,
		"tracks":   len(tracks),
	}).Info("Loaded catalog manifest")
	return tracks, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) || strings.Contains(p, "://") {
		return p
	}
	return filepath.Join(base, p)
}

// parseLength accepts "ss", "mm:ss" or "hh:mm:ss"; empty means unknown
func parseLength(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	var total int
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid length %q", s)
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second, nil
}
