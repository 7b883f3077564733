// Package timestamp turns noisy OCR text from a camera overlay into a
// calendar-valid date and time.
//
// # Stages
//
// Text goes through three steps:
//   - Normalize folds full-width forms, maps OCR confusables (O→0, I→1, S→5, ...)
//     onto digits, strips slash-like glyphs and collapses runs of spaces, colons
//     and dashes.
//   - RepairTriplets shortens a doubled time field such as ":107:" to ":07:".
//   - A Parser tries an ordered list of matchers and returns the first result
//     that forms a valid calendar date and time.
//
// Matchers are independent; a numeric match that fails calendar validation is
// discarded and the next matcher is tried.
package timestamp
