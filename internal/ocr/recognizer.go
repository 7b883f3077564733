package ocr

import (
	"context"
	"errors"
	"image"
	"strings"
)

var (
	// ErrEmptyImage is returned for images with no pixels.
	ErrEmptyImage = errors.New("ocr: empty image")
	// ErrClosed is returned after the engine has been closed.
	ErrClosed = errors.New("ocr: engine closed")
)

// Recognizer turns an image of a single text line into raw text.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, img image.Image) (string, error)

// Recognize calls f(ctx, img).
func (f RecognizerFunc) Recognize(ctx context.Context, img image.Image) (string, error) {
	return f(ctx, img)
}

// Clean trims engine output and joins its lines with spaces.
func Clean(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
}
