// Package batch enumerates image folders and runs recognition over them
// with a bounded number of concurrent workers.
//
// Results are returned in input order regardless of completion order, and a
// failure on one image is recorded in its Result without affecting the rest.
package batch
