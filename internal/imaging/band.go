package imaging

import (
	"image"

	"gonum.org/v1/gonum/stat"
)

// Band is the row range [Y0, Y1) of a frame holding the overlay text.
type Band struct {
	Y0 int `json:"y0"`
	Y1 int `json:"y1"`
	// Detected is false when no dark banner was found and the fallback rows
	// were used.
	Detected bool `json:"detected"`
}

// Height returns the number of rows in the band.
func (b Band) Height() int {
	return b.Y1 - b.Y0
}

// BandOptions tune the banner search.
type BandOptions struct {
	ScanFraction     float64 // fraction of rows from the top that are examined
	DarkThreshold    float64 // rows with a lower mean intensity are dark
	MaxStartRow      int     // a banner must start at or above this row
	MinRunRows       int     // and span at least this many rows
	FallbackFraction float64
	FallbackMinRows  int
	Padding          int
}

// DefaultBandOptions returns the settings for top-of-frame camera banners.
func DefaultBandOptions() BandOptions {
	return BandOptions{
		ScanFraction:     0.25,
		DarkThreshold:    60,
		MaxStartRow:      5,
		MinRunRows:       10,
		FallbackFraction: 0.09,
		FallbackMinRows:  16,
		Padding:          2,
	}
}

// LocateBand finds the dark overlay banner at the top of gray. It never
// fails: without a qualifying banner it returns the fallback rows, and the
// result is always clamped to the image.
func LocateBand(gray *image.Gray, opts BandOptions) Band {
	h := gray.Bounds().Dy()
	means := RowMeans(gray, int(float64(h)*opts.ScanFraction))

	best, found := runSpan{}, false
	for _, r := range darkRuns(means, opts.DarkThreshold) {
		if r.start > opts.MaxStartRow || r.end-r.start+1 < opts.MinRunRows {
			continue
		}
		if !found || r.end-r.start > best.end-best.start {
			best, found = r, true
		}
	}

	var y0, y1 int
	if found {
		y0, y1 = best.start, best.end
	} else {
		y0, y1 = 0, max(opts.FallbackMinRows, int(float64(h)*opts.FallbackFraction))
	}
	return Band{
		Y0:       clamp(y0-opts.Padding, 0, h),
		Y1:       clamp(y1+opts.Padding, 0, h),
		Detected: found,
	}
}

// RowMeans returns the mean intensity of each of the first n rows.
func RowMeans(gray *image.Gray, n int) []float64 {
	b := gray.Bounds()
	n = clamp(n, 0, b.Dy())
	w := b.Dx()
	means := make([]float64, n)
	if w == 0 {
		return means
	}
	row := make([]float64, w)
	for y := 0; y < n; y++ {
		off := gray.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			row[x] = float64(gray.Pix[off+x])
		}
		means[y] = stat.Mean(row, nil)
	}
	return means
}

// runSpan is an inclusive range of consecutive row indices.
type runSpan struct {
	start, end int
}

func darkRuns(means []float64, threshold float64) []runSpan {
	var runs []runSpan
	open := false
	for y, m := range means {
		switch {
		case m < threshold && open:
			runs[len(runs)-1].end = y
		case m < threshold:
			runs = append(runs, runSpan{y, y})
			open = true
		default:
			open = false
		}
	}
	return runs
}

// CropRows returns rows [band.Y0, band.Y1) of gray as a new image at the origin.
func CropRows(gray *image.Gray, band Band) *image.Gray {
	b := gray.Bounds()
	return ToGray(gray.SubImage(image.Rect(b.Min.X, b.Min.Y+band.Y0, b.Max.X, b.Min.Y+band.Y1)))
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
