package imaging

import (
	"image"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// ColorShare is a quantized color and the percentage of pixels that have it.
type ColorShare struct {
	Hex     string  `json:"hex"`
	Percent float64 `json:"percent"`
}

// BandStats describes how far a band stands out from the scene under it.
// Contrast is the mean intensity below the band minus the mean inside it; a
// value near zero usually means the fallback rows landed on a bright frame.
type BandStats struct {
	BandMean  float64      `json:"band_mean"`
	BelowMean float64      `json:"below_mean"`
	Contrast  float64      `json:"contrast"`
	Colors    []ColorShare `json:"colors,omitempty"`
}

// DescribeBand measures band in frame against the strip right below it,
// which is as tall as the band and clipped to the frame. Up to colors
// dominant colors of the band are listed, quantized to steps of 16.
func DescribeBand(frame image.Image, band Band, colors int) BandStats {
	gray := ToGray(frame)
	h := gray.Bounds().Dy()
	y0 := clamp(band.Y0, 0, h)
	y1 := clamp(band.Y1, y0, h)
	means := RowMeans(gray, h)

	var s BandStats
	if y1 == y0 {
		return s
	}
	s.BandMean = stat.Mean(means[y0:y1], nil)
	if below := means[y1:clamp(2*y1-y0, y1, h)]; len(below) > 0 {
		s.BelowMean = stat.Mean(below, nil)
		s.Contrast = s.BelowMean - s.BandMean
	}
	if colors > 0 {
		s.Colors = dominantColors(frame, y0, y1, colors)
	}
	return s
}

func dominantColors(frame image.Image, y0, y1, count int) []ColorShare {
	b := frame.Bounds()
	counts := make(map[[3]uint8]int)
	total := 0
	for y := b.Min.Y + y0; y < b.Min.Y+y1; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := frame.At(x, y).RGBA()
			counts[[3]uint8{uint8(r>>8) &^ 15, uint8(g>>8) &^ 15, uint8(bl>>8) &^ 15}]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	shares := make([]ColorShare, 0, len(counts))
	for k, n := range counts {
		c := colorful.Color{R: float64(k[0]) / 255, G: float64(k[1]) / 255, B: float64(k[2]) / 255}
		shares = append(shares, ColorShare{
			Hex:     c.Hex(),
			Percent: math.Round(float64(n)/float64(total)*1000) / 10,
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Percent != shares[j].Percent {
			return shares[i].Percent > shares[j].Percent
		}
		return shares[i].Hex < shares[j].Hex
	})
	if len(shares) > count {
		shares = shares[:count]
	}
	return shares
}
