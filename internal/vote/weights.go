package vote

import (
	"regexp"

	"github.com/ironsheep/trailcam-ocr/internal/timestamp"
)

var timeTailRe = regexp.MustCompile(`:[0-9]{2}\s*:\s*[0-9]{2}`)

// LayoutBonus holds the shape adjustments applied to normalized OCR text.
type LayoutBonus struct {
	// ColonBonus is added when the text has two or three colons.
	ColonBonus float64 `json:"colon_bonus"`
	// TripletPenalty is subtracted when a three-digit run follows a colon.
	TripletPenalty float64 `json:"triplet_penalty"`
	// TimeTailBonus is added when an "NN:NN" pair follows a colon.
	TimeTailBonus float64 `json:"time_tail_bonus"`
}

// Weights are the calibrated bias tables. Unknown tags contribute zero.
type Weights struct {
	ROI     map[string]float64 `json:"roi"`
	Variant map[string]float64 `json:"variant"`
	Layout  LayoutBonus        `json:"layout"`
}

// DefaultWeights returns the calibrated tables.
func DefaultWeights() Weights {
	return Weights{
		ROI: map[string]float64{
			"left70":  3.2,
			"full":    1.4,
			"mid60":   -1.0,
			"right60": -1.5,
		},
		Variant: map[string]float64{
			"cubic|morph_inv":     3.6,
			"cubic|blur_otsu_inv": 2.4,
			"cubic|otsu_inv":      1.2,
			"cubic|adapt_inv":     0.8,
			"nearest|otsu_inv":    -1.0,
			"nearest|adapt_inv":   -1.2,
		},
		Layout: LayoutBonus{
			ColonBonus:     0.4,
			TripletPenalty: 0.6,
			TimeTailBonus:  0.2,
		},
	}
}

// Weight scores one OCR reading. It depends only on its arguments.
func (w Weights) Weight(roi, variant, raw string) float64 {
	return w.ROI[roi] + w.Variant[variant] + w.LayoutScore(raw)
}

// LayoutScore rates how much the normalized text looks like an HH:MM:SS
// overlay. Doubled-digit artifacts are judged before repair.
func (w Weights) LayoutScore(raw string) float64 {
	t := timestamp.Normalize(raw)
	var bonus float64
	if c := timestamp.ColonCount(t); c >= 2 && c <= 3 {
		bonus += w.Layout.ColonBonus
	}
	if timestamp.HasTimeFieldTriplet(t) {
		bonus -= w.Layout.TripletPenalty
	}
	if timeTailRe.MatchString(t) {
		bonus += w.Layout.TimeTailBonus
	}
	return bonus
}
