package vote

import (
	"math"
	"sort"

	"github.com/ironsheep/trailcam-ocr/internal/timestamp"
)

// Tier names the selection step that produced a Decision.
type Tier string

const (
	TierNone        Tier = "none"
	TierElite       Tier = "elite"
	TierFieldVote   Tier = "field_vote"
	TierWholeString Tier = "whole_string"
	TierAbsolute    Tier = "absolute"
)

// noRunnerUp stands in for the second-place weight when there is only one
// candidate.
const noRunnerUp = -1e9

// Policy configures Select.
type Policy struct {
	// EliteMargin is how far the top candidate must lead the runner-up to
	// skip voting.
	EliteMargin float64 `json:"elite_margin"`
	// PreferredROIs and PreferredVariants gate the elite shortcut.
	PreferredROIs     []string `json:"preferred_rois"`
	PreferredVariants []string `json:"preferred_variants"`
	// MismatchPenalty is subtracted from candidates that disagree with the
	// field-vote consensus when picking its representative.
	MismatchPenalty float64 `json:"mismatch_penalty"`
}

// DefaultPolicy returns the calibrated selection policy.
func DefaultPolicy() Policy {
	return Policy{
		EliteMargin:       0.8,
		PreferredROIs:     []string{"left70", "full"},
		PreferredVariants: []string{"cubic|morph_inv", "cubic|blur_otsu_inv"},
		MismatchPenalty:   0.5,
	}
}

// Decision is the outcome of selection for one image.
type Decision struct {
	Tier      Tier                `json:"tier"`
	OK        bool                `json:"ok"`
	Timestamp timestamp.Timestamp `json:"timestamp"`
	// Winner is the representative candidate, nil when nothing parsed.
	Winner *Candidate `json:"winner,omitempty"`
}

// Raw returns the representative raw text, or "" when unrecognized.
func (d Decision) Raw() string {
	if d.Winner == nil {
		return ""
	}
	return d.Winner.Raw
}

// Select picks one timestamp from the candidates of a single image. Only
// parsed candidates take part; their order is the generation order and acts
// as the secondary key when weights tie.
func (p Policy) Select(all []Candidate) Decision {
	cands := make([]Candidate, 0, len(all))
	for _, c := range all {
		if c.Parsed {
			cands = append(cands, c)
		}
	}
	if len(cands) == 0 {
		return Decision{Tier: TierNone}
	}

	if c, ok := p.elite(cands); ok {
		return decided(TierElite, c.Timestamp, c)
	}
	if d, ok := p.fieldVote(cands); ok {
		return d
	}
	c := absoluteTop(cands)
	return decided(TierAbsolute, c.Timestamp, c)
}

func decided(tier Tier, ts timestamp.Timestamp, c Candidate) Decision {
	return Decision{Tier: tier, OK: true, Timestamp: ts, Winner: &c}
}

func (p Policy) elite(cands []Candidate) (Candidate, bool) {
	ranked := make([]Candidate, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})
	top := ranked[0]
	next := noRunnerUp
	if len(ranked) > 1 {
		next = ranked[1].Weight
	}
	if !contains(p.PreferredROIs, top.ROI) || !contains(p.PreferredVariants, top.Variant) {
		return Candidate{}, false
	}
	return top, top.Weight >= next+p.EliteMargin
}

// fieldVote builds a consensus from the weighted mode of each field. It
// reports false when some field has no positive weight.
func (p Policy) fieldVote(cands []Candidate) (Decision, bool) {
	var fields [timestamp.FieldCount]int
	for i := range fields {
		tally := make(map[int]float64)
		for _, c := range cands {
			if c.Weight > 0 {
				tally[c.Timestamp.Fields()[i]] += c.Weight
			}
		}
		v, ok := weightedMode(tally)
		if !ok {
			return Decision{}, false
		}
		fields[i] = v
	}

	consensus := timestamp.FromFields(fields)
	if !consensus.Valid() {
		return wholeString(cands)
	}

	var rep Candidate
	best := math.Inf(-1)
	for _, c := range cands {
		score := c.Weight
		if c.Timestamp != consensus {
			score -= p.MismatchPenalty
		}
		if score > best {
			best, rep = score, c
		}
	}
	return decided(TierFieldVote, consensus, rep), true
}

// wholeString groups candidates by canonical string and sums positive
// weights. The heaviest group wins, ties going to the smaller string; its
// heaviest member represents it, ties going to the smaller ROI tag.
func wholeString(cands []Candidate) (Decision, bool) {
	tally := make(map[string]float64)
	for _, c := range cands {
		if c.Weight > 0 {
			tally[c.Canonical] += c.Weight
		}
	}
	if len(tally) == 0 {
		return Decision{}, false
	}

	keys := make([]string, 0, len(tally))
	for k := range tally {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if tally[keys[i]] != tally[keys[j]] {
			return tally[keys[i]] > tally[keys[j]]
		}
		return keys[i] < keys[j]
	})
	bestKey := keys[0]

	var reps []Candidate
	for _, c := range cands {
		if c.Canonical == bestKey {
			reps = append(reps, c)
		}
	}
	sort.SliceStable(reps, func(i, j int) bool {
		if reps[i].Weight != reps[j].Weight {
			return reps[i].Weight > reps[j].Weight
		}
		return reps[i].ROI < reps[j].ROI
	})
	return decided(TierWholeString, reps[0].Timestamp, reps[0]), true
}

// absoluteTop returns the first candidate with the highest weight.
func absoluteTop(cands []Candidate) Candidate {
	top := cands[0]
	for _, c := range cands[1:] {
		if c.Weight > top.Weight {
			top = c
		}
	}
	return top
}

func weightedMode(tally map[int]float64) (int, bool) {
	if len(tally) == 0 {
		return 0, false
	}
	first := true
	var best int
	var bestW float64
	for v, w := range tally {
		if first || w > bestW || (w == bestW && v < best) {
			best, bestW, first = v, w, false
		}
	}
	return best, true
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
