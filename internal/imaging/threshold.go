package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/histogram"
)

// OtsuLevel returns the global threshold that maximizes the between-class
// variance of gray's histogram. Pixels strictly above the level are
// foreground.
func OtsuLevel(gray *image.Gray) uint8 {
	bins := histogram.NewRGBAHistogram(gray).R.Bins
	total := 0
	for _, n := range bins {
		total += n
	}
	if total == 0 {
		return 0
	}

	var mu float64
	for i, n := range bins {
		mu += float64(i) * float64(n) / float64(total)
	}

	const eps = 1.19209290e-07
	var q1, mu1, maxSigma float64
	level := 0
	for i, n := range bins {
		p := float64(n) / float64(total)
		mu1 *= q1
		q1 += p
		q2 := 1 - q1
		if min(q1, q2) < eps || max(q1, q2) > 1-eps {
			continue
		}
		mu1 = (mu1 + float64(i)*p) / q1
		mu2 := (mu - q1*mu1) / q2
		sigma := q1 * q2 * (mu1 - mu2) * (mu1 - mu2)
		if sigma > maxSigma {
			maxSigma, level = sigma, i
		}
	}
	return uint8(level)
}

// Binarize sets pixels above level to white and the rest to black. It
// compares the stored gray values; bild's segment.Threshold ranks by a
// float luminance that truncates some values one step down.
func Binarize(gray *image.Gray, level uint8) *image.Gray {
	b := gray.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := gray.Pix[gray.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := out.Pix[out.PixOffset(0, y):]
		for x := 0; x < b.Dx(); x++ {
			if src[x] > level {
				dst[x] = 255
			}
		}
	}
	return out
}

// Invert swaps dark and light.
func Invert(gray *image.Gray) *image.Gray {
	return ToGray(effect.Invert(gray))
}

// OtsuInv binarizes gray at its Otsu level and inverts the result.
func OtsuInv(gray *image.Gray) *image.Gray {
	return Invert(Binarize(gray, OtsuLevel(gray)))
}

// smallGaussian holds the fixed kernels OpenCV uses for a Gaussian blur of
// size 3, 5 and 7 when sigma is derived from the size.
var smallGaussian = map[int][]float64{
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// GaussianTaps returns the 1-D kernel of a (2r+1)-tap Gaussian blur with r
// the rounded radius. Sizes above 7 use sigma 0.3*((size-1)/2-1)+0.8.
func GaussianTaps(radius float64) []float64 {
	size := 2*int(math.Round(radius)) + 1
	if taps, ok := smallGaussian[size]; ok {
		return append([]float64(nil), taps...)
	}
	sigma := 0.3*(float64(size-1)/2-1) + 0.8
	taps := make([]float64, size)
	var sum float64
	for i := range taps {
		x := float64(i - size/2)
		taps[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += taps[i]
	}
	for i := range taps {
		taps[i] /= sum
	}
	return taps
}

// Blur applies a separable Gaussian blur of 2r+1 taps; radius 1 is the 3x3
// kernel with sigma 0.8. Results are rounded to the nearest gray value.
func Blur(gray *image.Gray, radius float64) *image.Gray {
	if math.Round(radius) < 1 {
		return gray
	}
	taps := GaussianTaps(radius)
	k := convolution.NewKernel(len(taps), 1)
	copy(k.Matrix, taps)

	opts := &convolution.Options{Bias: 0.5}
	out := convolution.Convolve(gray, k, opts)
	return ToGray(convolution.Convolve(out, k.Transposed(), opts))
}

// AdaptiveMeanInv thresholds each pixel against the mean of its block×block
// neighbourhood minus c. Pixels above that local level become black and the
// rest white, which is the inverted form of a binary adaptive threshold.
func AdaptiveMeanInv(gray *image.Gray, block int, c float64) *image.Gray {
	b := gray.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if b.Empty() {
		return out
	}
	mean := ToGray(blur.Box(gray, float64(block/2)))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := float64(gray.Pix[gray.PixOffset(b.Min.X+x, b.Min.Y+y)])
			m := float64(mean.Pix[mean.PixOffset(x, y)])
			if v <= m-c {
				out.Pix[out.PixOffset(x, y)] = 255
			}
		}
	}
	return out
}
