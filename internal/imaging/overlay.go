package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultOverlayColor outlines the band in debug renderings.
const DefaultOverlayColor = "#ff3030"

// Overlay returns a copy of frame with the band outlined and each ROI's
// column range marked inside it. ROI markers are progressively lighter tints
// of the band colour so overlapping crops stay distinguishable.
func Overlay(frame image.Image, band Band, rois []ROI, hex string) (*image.RGBA, error) {
	base, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse overlay color %q: %w", hex, err)
	}

	b := frame.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), frame, b.Min, draw.Src)
	if band.Height() <= 0 || b.Dx() == 0 {
		return out, nil
	}

	drawRect(out, image.Rect(0, band.Y0, b.Dx(), band.Y1), toRGBA(base))

	white := colorful.Color{R: 1, G: 1, B: 1}
	for i, roi := range rois {
		tint := toRGBA(base.BlendLab(white, 0.2*float64(i+1)).Clamped())
		// one marker row per ROI
		y := clamp(band.Y0+1+i, band.Y0, band.Y1-1)
		for x := roi.X0; x < roi.X1 && x < b.Dx(); x++ {
			out.Set(x, y, tint)
		}
		for yy := band.Y0; yy < band.Y1; yy++ {
			out.Set(roi.X0, yy, tint)
			if roi.X1 > 0 {
				out.Set(roi.X1-1, yy, tint)
			}
		}
	}
	return out, nil
}

func drawRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
