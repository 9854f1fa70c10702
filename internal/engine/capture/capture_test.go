package capture

import (
	"image/png"
	"os"
	"testing"
)

func TestSavePixelsFlipsRows(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, "shot")

	// 1x2 image: bottom row red, top row blue
	pixels := []byte{
		255, 0, 0, 255, // row 0 (bottom in GL)
		0, 0, 255, 255, // row 1 (top in GL)
	}

	name, err := c.SavePixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("SavePixels failed: %v", err)
	}

	f, err := os.Open(name)
	if err != nil {
		t.Fatalf("opening screenshot: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding screenshot: %v", err)
	}

	// GL bottom row becomes the image's last row
	r, _, b, _ := img.At(0, 1).RGBA()
	if r>>8 != 255 || b>>8 != 0 {
		t.Errorf("expected red at bottom of image, got r=%d b=%d", r>>8, b>>8)
	}
	r, _, b, _ = img.At(0, 0).RGBA()
	if r>>8 != 0 || b>>8 != 255 {
		t.Errorf("expected blue at top of image, got r=%d b=%d", r>>8, b>>8)
	}
}

func TestSavePixelsSizeMismatch(t *testing.T) {
	c := New(t.TempDir(), "shot")
	if _, err := c.SavePixels([]byte{1, 2, 3}, 2, 2); err == nil {
		t.Fatal("expected error for short pixel buffer")
	}
}
