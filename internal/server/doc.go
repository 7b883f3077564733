// Package server implements an MCP (Model Context Protocol) server exposing
// trail-camera timestamp recognition.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - timestamp_recognize: Recognize the overlay timestamp of one frame
//   - timestamp_recognize_folder: Recognize every image in a folder
//   - timestamp_parse: Explain how OCR text parses
//   - timestamp_locate_band: Find the overlay banner and return its crop
//   - ocr_info: Report the OCR engine
//
// timestamp_locate_band caches the decoded frame by path so that the
// timestamp_recognize call that usually follows skips disk I/O; recognition
// then drops it. The cache is bounded and re-reads a file that changed.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC errors with code -32000 and the Go
// error string as data. Malformed lines get -32700, unknown methods -32601
// and undecodable tools/call params -32602.
package server
