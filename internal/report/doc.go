// Package report writes recognition results as CSV or JSON and post-processes
// existing result spreadsheets.
//
// The CSV layout is the one spreadsheet users already consume:
//
//	file,timestamp,raw_ocr
//	RCNX0001.png,"=""2024-08-01 06:31:27""",2024-08-01 06:31:27
//
// With Excel quoting on, the timestamp cell is written as ="..." so that
// spreadsheet applications keep it as text instead of reformatting it.
// SplitCSV adds Date and Time columns to such a file, and Combine fills
// missing Date/Time values of another sheet from it. ScanFolder produces that
// other sheet from a camera folder: EXIF DateTimeOriginal for stills and the
// modification time for clips.
package report
