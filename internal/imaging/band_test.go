package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestLocateBand_DetectsTopBanner(t *testing.T) {
	gray := bannerFrame(320, 240, 0, 30)
	band := LocateBand(gray, DefaultBandOptions())

	if !band.Detected {
		t.Fatal("expected banner to be detected")
	}
	// dark rows 0..29 padded by two rows each side, Y1 exclusive
	if band.Y0 != 0 || band.Y1 != 31 {
		t.Errorf("band = [%d,%d), want [0,31)", band.Y0, band.Y1)
	}
}

func TestLocateBand_BannerStartingLowerIsPadded(t *testing.T) {
	gray := bannerFrame(320, 240, 4, 24)
	band := LocateBand(gray, DefaultBandOptions())
	if !band.Detected || band.Y0 != 2 || band.Y1 != 25 {
		t.Errorf("band = %+v, want detected [2,25)", band)
	}
}

func TestLocateBand_RejectsLateOrShortRuns(t *testing.T) {
	opts := DefaultBandOptions()
	tests := []struct {
		name       string
		start, end int
	}{
		{"starts below row 5", 8, 40},
		{"only 9 rows", 0, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band := LocateBand(bannerFrame(320, 240, tt.start, tt.end), opts)
			if band.Detected {
				t.Errorf("unexpected detection %+v", band)
			}
		})
	}
}

func TestLocateBand_IgnoresLongerLateRun(t *testing.T) {
	gray := bannerFrame(100, 400, 0, 12)
	for x := 0; x < 100; x++ {
		gray.SetGray(x, 12, color.Gray{Y: 200})
		for y := 13; y < 60; y++ {
			gray.SetGray(x, y, color.Gray{Y: 5})
		}
	}
	band := LocateBand(gray, DefaultBandOptions())
	// the second run starts at row 13, past the start limit
	if band.Y0 != 0 || band.Y1 != 13 {
		t.Errorf("band = %+v, want [0,13)", band)
	}
}

func TestLocateBand_FallbackWithoutBanner(t *testing.T) {
	tests := []struct {
		name   string
		height int
		wantY1 int
	}{
		{"tall frame uses 9 percent", 480, 43 + 2},
		{"short frame uses 16 rows", 100, 16 + 2},
		{"tiny frame is clamped", 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gray := ToGray(solidImage(64, tt.height, color.Gray{Y: 180}))
			band := LocateBand(gray, DefaultBandOptions())
			if band.Detected {
				t.Error("no banner should be detected")
			}
			if band.Y0 != 0 || band.Y1 != tt.wantY1 {
				t.Errorf("band = [%d,%d), want [0,%d)", band.Y0, band.Y1, tt.wantY1)
			}
			if band.Height() <= 0 {
				t.Error("band must never be empty")
			}
		})
	}
}

func TestRowMeans(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		gray.SetGray(x, 0, color.Gray{Y: uint8(10 * x)})
		gray.SetGray(x, 1, color.Gray{Y: 100})
	}
	means := RowMeans(gray, 10)
	if len(means) != 3 {
		t.Fatalf("len = %d, want 3", len(means))
	}
	if means[0] != 15 || means[1] != 100 || means[2] != 0 {
		t.Errorf("means = %v", means)
	}
}

func TestCropRows(t *testing.T) {
	gray := bannerFrame(50, 80, 0, 20)
	crop := CropRows(gray, Band{Y0: 5, Y1: 15})
	if crop.Bounds() != image.Rect(0, 0, 50, 10) {
		t.Errorf("crop bounds = %v", crop.Bounds())
	}
	if crop.GrayAt(0, 0).Y != gray.GrayAt(0, 5).Y {
		t.Error("crop is not aligned with band start")
	}
}
