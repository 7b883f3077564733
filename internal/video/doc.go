// Package video pulls still frames out of trail camera video clips so that
// their overlay timestamps can be recognized like photos.
//
// Decoding needs OpenCV through gocv and is only compiled in with the gocv
// build tag:
//
//	go build -tags gocv ./cmd/trailcam-ocr
//
// Without it ReadLastFrame returns ErrUnsupported.
package video
