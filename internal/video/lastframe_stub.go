//go:build !gocv

package video

import "image"

// ReadLastFrame is unavailable without the gocv build tag.
func ReadLastFrame(path string) (image.Image, error) {
	return nil, ErrUnsupported
}
