package imaging

import (
	"image"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func TestMakeVariants_TagsAndOrder(t *testing.T) {
	roi := CropRows(bannerFrame(120, 80, 0, 20), Band{Y0: 0, Y1: 22})
	vs := MakeVariants(roi, DefaultVariantOptions())

	want := VariantTags()
	if len(vs) != len(want) {
		t.Fatalf("got %d variants, want %d", len(vs), len(want))
	}
	for i, v := range vs {
		if v.Tag != want[i] {
			t.Errorf("variant %d = %q, want %q", i, v.Tag, want[i])
		}
	}
}

func TestMakeVariants_Sizes(t *testing.T) {
	roi := image.NewGray(image.Rect(0, 0, 100, 20))
	vs := MakeVariants(roi, DefaultVariantOptions())
	for _, v := range vs {
		want := image.Rect(0, 0, 220, 44)
		if strings.HasPrefix(v.Tag, UpscaleNearest) {
			want = image.Rect(0, 0, 240, 48)
		}
		if v.Image.Bounds() != want {
			t.Errorf("%s bounds = %v, want %v", v.Tag, v.Image.Bounds(), want)
		}
	}
}

func TestMakeVariants_Binary(t *testing.T) {
	roi := CropRows(bannerFrame(120, 80, 0, 20), Band{Y0: 0, Y1: 22})
	for _, v := range MakeVariants(roi, DefaultVariantOptions()) {
		for _, p := range v.Image.Pix {
			if p != 0 && p != 255 {
				t.Errorf("%s has non-binary pixel %d", v.Tag, p)
				break
			}
		}
	}
}

func TestMakeVariants_DegenerateInputs(t *testing.T) {
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, 0, 0),
		image.Rect(0, 0, 0, 5),
		image.Rect(0, 0, 1, 1),
	} {
		vs := MakeVariants(image.NewGray(r), DefaultVariantOptions())
		if len(vs) != 6 {
			t.Errorf("%v: got %d variants", r, len(vs))
		}
	}
}

func TestUpscale(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 2))
	up := Upscale(g, 2.2, imaging.CatmullRom)
	// round(6.6)=7, round(4.4)=4
	if up.Bounds() != image.Rect(0, 0, 7, 4) {
		t.Errorf("bounds = %v", up.Bounds())
	}
	if !Upscale(image.NewGray(image.Rect(0, 0, 0, 0)), 2, imaging.NearestNeighbor).Bounds().Empty() {
		t.Error("empty input should stay empty")
	}
}
