// Package recognize reads the overlay timestamp of one trail camera frame.
//
// Engine runs the whole pipeline for a single image: locate the banner,
// cut it into regions of interest, render each region as six preprocessing
// variants, OCR every variant, parse each reading into a candidate and let
// vote.Policy choose one. Recognition of one image is sequential; callers
// process many images concurrently with their own Engine or a shared one.
//
// Debug artifacts go through the DebugSink interface, so the pipeline itself
// never touches the filesystem unless a FileSink is injected.
package recognize
