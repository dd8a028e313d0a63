package coverart

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConvertFileWithoutPoster(t *testing.T) {
	c := NewConverter(10, 5)
	art, err := c.ConvertFile("")
	if err != nil {
		t.Fatalf("ConvertFile(\"\") error = %v", err)
	}
	if art != c.Placeholder() {
		t.Error("expected placeholder for a track without poster")
	}
}

func TestConvertFileFailuresReturnPlaceholder(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.jpeg")
	if err := os.WriteFile(broken, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewConverter(10, 5)
	for _, path := range []string{filepath.Join(dir, "missing.jpeg"), broken} {
		art, err := c.ConvertFile(path)
		if err == nil {
			t.Errorf("ConvertFile(%s) error = nil", path)
		}
		if art != c.Placeholder() {
			t.Errorf("ConvertFile(%s) did not return placeholder", path)
		}
	}
}

func TestConvertFile(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 16), uint8(y * 16), 128, 255})
		}
	}
	path := filepath.Join(t.TempDir(), "poster.jpeg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	c := NewConverter(8, 4)
	art, err := c.ConvertFile(path)
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if art == c.Placeholder() || strings.TrimSpace(art) == "" {
		t.Errorf("expected ascii art, got %q", art)
	}
}
