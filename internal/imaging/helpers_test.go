package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeTestImage encodes img as PNG in a temp dir and returns its path.
func writeTestImage(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// solidImage returns a width×height RGBA image filled with c.
func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// bannerFrame mimics a trail camera frame: a mid-gray scene with a black
// banner covering rows [start, end) and a white text-like stripe inside it.
func bannerFrame(width, height, start, end int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(140)
			if y >= start && y < end {
				v = 10
				mid := (start + end) / 2
				if y >= mid-1 && y <= mid+1 && x%8 == 0 && x > width/10 && x < width*6/10 {
					v = 235
				}
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}
