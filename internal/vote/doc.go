// Package vote weights OCR candidates and chooses one timestamp per image.
//
// Selection runs in tiers: an elite shortcut for a clear leader from a
// preferred (ROI, variant) pair, weighted per-field voting, weighted
// whole-string voting when the field consensus is not a real date, and
// finally the single highest-weight candidate.
package vote
