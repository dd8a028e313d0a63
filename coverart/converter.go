package coverart

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/qeesung/image2ascii/convert"
)

// Converter handles track poster conversion to ASCII
type Converter struct {
	converter *convert.ImageConverter
	width     int
	height    int
}

// NewConverter creates a converter producing width x height character art
func NewConverter(width, height int) *Converter {
	return &Converter{
		converter: convert.NewImageConverter(),
		width:     width,
		height:    height,
	}
}

// ConvertFile reads and converts a poster image to ASCII art. An empty path
// means the track has no poster; on any failure the placeholder is returned
// together with the error.
func (c *Converter) ConvertFile(path string) (string, error) {
	if path == "" {
		return c.Placeholder(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return c.Placeholder(), fmt.Errorf("failed to open poster: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return c.Placeholder(), fmt.Errorf("failed to decode: %w", err)
	}

	convertOptions := convert.DefaultOptions
	convertOptions.FixedWidth = c.width
	convertOptions.FixedHeight = c.height
	convertOptions.Colored = false // Disable ANSI colors for tview compatibility

	return c.converter.Image2ASCIIString(img, &convertOptions), nil
}

// Placeholder returns the art shown while a poster loads or when there is none
func (c *Converter) Placeholder() string {
	return `[darkgray]┌───────────────────────┐
[darkgray]│                       │
[darkgray]│                       │
[darkgray]│        ♫  ♪  ♫        │
[darkgray]│       No Poster       │
[darkgray]│        ♫  ♪  ♫        │
[darkgray]│                       │
[darkgray]│                       │
[darkgray]└───────────────────────┘`
}
