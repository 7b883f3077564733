package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// renderLine draws text in black on white with basicfont, scaled up so that
// Tesseract has enough pixels per glyph.
func renderLine(text string, scale int) *image.RGBA {
	w, h := len(text)*7+40, 30
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(20), Y: fixed.I(20)},
	}
	d.DrawString(text)

	big := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h*scale; y++ {
		for x := 0; x < w*scale; x++ {
			big.Set(x, y, small.At(x/scale, y/scale))
		}
	}
	return big
}

func newTesseractOrSkip(t *testing.T) *Tesseract {
	t.Helper()
	if TesseractVersion() == "" {
		t.Skip("Tesseract not available")
	}
	cfg := DefaultEngineConfig()
	cfg.PoolSize = 1
	eng, err := NewTesseract(cfg)
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	t.Cleanup(func() { eng.Close() })
	return eng
}

func TestClean(t *testing.T) {
	assert.Equal(t, "2024-08-01 06:31:27", Clean("  2024-08-01\n06:31:27\n\n"))
	assert.Equal(t, "", Clean("\n"))
}

func TestRecognizerFunc(t *testing.T) {
	var got image.Image
	r := RecognizerFunc(func(_ context.Context, img image.Image) (string, error) {
		got = img
		return "x", nil
	})
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	text, err := r.Recognize(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, "x", text)
	assert.Same(t, img, got)
}

func TestDefaultEngineConfig(t *testing.T) {
	cfg := DefaultEngineConfig()
	assert.Equal(t, 7, cfg.PageSegMode)
	assert.Equal(t, "0123456789:-", cfg.Whitelist)
	assert.True(t, cfg.PreserveInterwordSpaces)
	assert.True(t, cfg.NumericMode)
	assert.Equal(t, "eng", cfg.Language)
	assert.Zero(t, cfg.PoolSize)
}

func TestNewTesseract_PoolSizeDefaultsToCPUs(t *testing.T) {
	if TesseractVersion() == "" {
		t.Skip("Tesseract not available")
	}
	eng, err := NewTesseract(DefaultEngineConfig())
	require.NoError(t, err)
	defer eng.Close()
	assert.Equal(t, runtime.NumCPU(), cap(eng.pool))
}

func TestBoolVar(t *testing.T) {
	assert.Equal(t, "1", boolVar(true))
	assert.Equal(t, "0", boolVar(false))
}

func TestTesseract_EmptyImage(t *testing.T) {
	eng := newTesseractOrSkip(t)
	_, err := eng.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, ErrEmptyImage)
	_, err = eng.Recognize(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestTesseract_CancelledWhileWaiting(t *testing.T) {
	eng := newTesseractOrSkip(t)
	// hold the only client
	c := <-eng.pool
	defer func() { eng.pool <- c }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := eng.Recognize(ctx, renderLine("12", 2))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestTesseract_RecognizesTimestamp(t *testing.T) {
	eng := newTesseractOrSkip(t)
	text, err := eng.Recognize(context.Background(), renderLine("2024-08-01 06:31:27", 4))
	require.NoError(t, err)
	assert.NotContains(t, text, "\n")
	// basicfont is not an overlay font; only require the whitelist to hold
	for _, r := range strings.ReplaceAll(text, " ", "") {
		assert.Contains(t, "0123456789:-", string(r))
	}
}

func TestTesseract_CloseIsIdempotent(t *testing.T) {
	eng := newTesseractOrSkip(t)
	require.NoError(t, eng.Close())
	require.NoError(t, eng.Close())
	_, err := eng.Recognize(context.Background(), renderLine("1", 2))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestGetInfo(t *testing.T) {
	info := GetInfo(DefaultEngineConfig())
	assert.Equal(t, "gosseract", info.Backend)
	if info.Available {
		assert.NotEmpty(t, info.Version)
	} else {
		assert.NotEmpty(t, info.Error)
	}
}
