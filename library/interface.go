package library

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yhkl-dev/navideck/domain"
)

const (
	audioExt      = ".mp3"
	posterExt     = ".jpeg"
	unknownArtist = "Unknown Artist"
)

// Library produces the track list a player is mounted with
type Library interface {
	Load() ([]domain.Track, error)
}

// New returns the Library for the given catalog kind ("manifest" or "dir")
func New(kind, path string, logger logrus.FieldLogger) (Library, error) {
	switch kind {
	case "manifest":
		return NewManifest(path, logger), nil
	case "dir":
		return NewDirectory(path, logger), nil
	default:
		return nil, fmt.Errorf("unknown catalog kind: %s", kind)
	}
}

// LoadCatalog loads lib and wraps the result in a domain.Catalog
func LoadCatalog(lib Library) (*domain.Catalog, error) {
	tracks, err := lib.Load()
	if err != nil {
		return nil, err
	}
	return domain.NewCatalog(tracks)
}
