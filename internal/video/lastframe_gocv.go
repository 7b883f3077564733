//go:build gocv

package video

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// nearEnd is the relative position tried when seeking by frame index fails.
const nearEnd = 0.999

// ReadLastFrame decodes the last frame of the clip at path. Some codecs
// report no frame count or refuse exact seeks, so it tries a seek to the last
// index, then a relative seek close to the end, then reads the whole clip.
func ReadLastFrame(path string) (image.Image, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}
	defer vc.Close()
	if !vc.IsOpened() {
		return nil, fmt.Errorf("failed to open video: %s", path)
	}

	frame := gocv.NewMat()
	defer frame.Close()

	if n := vc.Get(gocv.VideoCaptureFrameCount); n > 1 {
		vc.Set(gocv.VideoCapturePosFrames, n-1)
		if vc.Read(&frame) && !frame.Empty() {
			return frame.ToImage()
		}
	}

	vc.Set(gocv.VideoCapturePOSAVIRatio, nearEnd)
	if vc.Read(&frame) && !frame.Empty() {
		return frame.ToImage()
	}

	vc.Set(gocv.VideoCapturePosFrames, 0)
	last := gocv.NewMat()
	defer last.Close()
	for vc.Read(&frame) {
		if frame.Empty() {
			break
		}
		frame.CopyTo(&last)
	}
	if last.Empty() {
		return nil, ErrNoFrame
	}
	return last.ToImage()
}
