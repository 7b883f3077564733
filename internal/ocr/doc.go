// Package ocr reads single-line overlay text with Tesseract.
//
// The Recognizer interface is the only thing the recognition pipeline depends
// on; Tesseract implements it through gosseract/v2, and tests substitute a
// RecognizerFunc.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng libtesseract-dev
//   - macOS: brew install tesseract
//
// # Engine Configuration
//
// The default EngineConfig matches the layout of camera overlays:
//   - page segmentation mode 7 (a single text line)
//   - whitelist "0123456789:-"
//   - preserve_interword_spaces=1
//   - classify_bln_numeric_mode=1
//
// # Concurrency
//
// A Tesseract value owns PoolSize gosseract clients and hands them out one
// recognition at a time, so it may be shared by the workers of a batch run.
// Images are passed to Tesseract as in-memory PNG data; no temporary files
// are written.
package ocr
