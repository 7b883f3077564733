package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Upscale and binarization names used in variant tags.
const (
	UpscaleCubic   = "cubic"
	UpscaleNearest = "nearest"

	BinOtsu     = "otsu_inv"
	BinBlurOtsu = "blur_otsu_inv"
	BinMorph    = "morph_inv"
	BinAdaptive = "adapt_inv"
)

// VariantOptions control preprocessing of each ROI.
type VariantOptions struct {
	CubicScale    float64
	NearestScale  float64
	BlurRadius    float64
	AdaptiveBlock int
	AdaptiveC     float64
	CloseWidth    int
	CloseHeight   int
}

// DefaultVariantOptions returns the standard preprocessing settings.
func DefaultVariantOptions() VariantOptions {
	return VariantOptions{
		CubicScale:    2.2,
		NearestScale:  2.4,
		BlurRadius:    1,
		AdaptiveBlock: 31,
		AdaptiveC:     5,
		CloseWidth:    3,
		CloseHeight:   2,
	}
}

// Variant is one preprocessed rendering of an ROI, tagged "upscale|binarization".
type Variant struct {
	Tag   string
	Image *image.Gray
}

// VariantTags lists the tags MakeVariants produces, in order.
func VariantTags() []string {
	return []string{
		UpscaleCubic + "|" + BinOtsu,
		UpscaleCubic + "|" + BinBlurOtsu,
		UpscaleCubic + "|" + BinMorph,
		UpscaleCubic + "|" + BinAdaptive,
		UpscaleNearest + "|" + BinOtsu,
		UpscaleNearest + "|" + BinAdaptive,
	}
}

// MakeVariants renders roi six ways. Each output is inverted so the text
// comes out dark on a light background. An empty roi yields empty images.
func MakeVariants(roi *image.Gray, opts VariantOptions) []Variant {
	out := make([]Variant, 0, 6)
	if roi.Bounds().Empty() {
		for _, tag := range VariantTags() {
			out = append(out, Variant{Tag: tag, Image: image.NewGray(image.Rect(0, 0, 0, 0))})
		}
		return out
	}
	scales := []struct {
		tag    string
		factor float64
		filter imaging.ResampleFilter
	}{
		{UpscaleCubic, opts.CubicScale, imaging.CatmullRom},
		{UpscaleNearest, opts.NearestScale, imaging.NearestNeighbor},
	}
	for _, s := range scales {
		big := Upscale(roi, s.factor, s.filter)
		add := func(bin string, img *image.Gray) {
			out = append(out, Variant{Tag: s.tag + "|" + bin, Image: img})
		}

		add(BinOtsu, OtsuInv(big))
		if s.tag == UpscaleCubic {
			blurred := Blur(big, opts.BlurRadius)
			th := Binarize(blurred, OtsuLevel(blurred))
			add(BinBlurOtsu, Invert(th))
			add(BinMorph, Invert(Close(th, opts.CloseWidth, opts.CloseHeight, 1)))
		}
		add(BinAdaptive, AdaptiveMeanInv(big, opts.AdaptiveBlock, opts.AdaptiveC))
	}
	return out
}

// Upscale resizes gray by factor, rounding the target size and keeping it at
// least one pixel in each dimension.
func Upscale(gray *image.Gray, factor float64, filter imaging.ResampleFilter) *image.Gray {
	b := gray.Bounds()
	if b.Empty() {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	w := max(1, int(math.Round(float64(b.Dx())*factor)))
	h := max(1, int(math.Round(float64(b.Dy())*factor)))
	return ToGray(imaging.Resize(gray, w, h, filter))
}
