// Package imaging prepares trail camera frames for overlay OCR.
//
// A frame is converted to grayscale, the dark banner holding the date/time
// overlay is located near the top (LocateBand), the band is cut into
// horizontal regions of interest (MakeROIs), and each region is upscaled and
// binarized several ways (MakeVariants) so that at least one rendering reads
// cleanly.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner. Row
// and column ranges are half-open: a Band [Y0, Y1) includes Y0 and excludes Y1.
// Every image returned by this package has its bounds at the origin.
//
// # Variant Tags
//
// Variants are tagged "{upscale}|{binarization}":
//   - cubic|otsu_inv, cubic|blur_otsu_inv, cubic|morph_inv, cubic|adapt_inv
//   - nearest|otsu_inv, nearest|adapt_inv
//
// All binarizations are inverted so that light overlay text comes out dark on
// a light background.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are pure and
// may be called concurrently.
package imaging
