package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// ROISpec names a horizontal slice of the band by width fraction.
type ROISpec struct {
	Tag  string  `json:"tag" mapstructure:"tag" yaml:"tag"`
	From float64 `json:"from" mapstructure:"from" yaml:"from"`
	To   float64 `json:"to" mapstructure:"to" yaml:"to"`
}

// DefaultROIs returns the standard crops in generation order.
func DefaultROIs() []ROISpec {
	return []ROISpec{
		{Tag: "full", From: 0, To: 1},
		{Tag: "left70", From: 0, To: 0.70},
		{Tag: "mid60", From: 0.20, To: 0.80},
		{Tag: "right60", From: 0.40, To: 1},
	}
}

// ROI is a named crop of the band.
type ROI struct {
	Tag    string
	X0, X1 int
	Image  *image.Gray
}

// MakeROIs crops band into the given slices, in order. Column bounds are
// truncated toward zero and clamped to the band width.
func MakeROIs(band *image.Gray, specs []ROISpec) []ROI {
	b := band.Bounds()
	w := b.Dx()
	rois := make([]ROI, 0, len(specs))
	for _, s := range specs {
		x0 := clamp(int(float64(w)*s.From), 0, w)
		x1 := clamp(int(float64(w)*s.To), x0, w)
		var img *image.Gray
		if x1 > x0 && b.Dy() > 0 {
			img = ToGray(imaging.Crop(band, image.Rect(b.Min.X+x0, b.Min.Y, b.Min.X+x1, b.Max.Y)))
		} else {
			img = image.NewGray(image.Rect(0, 0, x1-x0, b.Dy()))
		}
		rois = append(rois, ROI{Tag: s.Tag, X0: x0, X1: x1, Image: img})
	}
	return rois
}

// EncodedImage is a PNG rendering of an image for JSON transport.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG renders img as a base64 PNG, optionally upscaled by scale.
func EncodePNG(img image.Image, scale float64) (*EncodedImage, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("cannot encode empty image")
	}
	if scale > 0 && scale != 1.0 {
		w := max(1, int(float64(b.Dx())*scale))
		h := max(1, int(float64(b.Dy())*scale))
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
