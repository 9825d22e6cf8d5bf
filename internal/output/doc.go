// Package output renders the end-of-run report.
//
// The text form is three lines (average, max, min, in seconds with two
// decimals) or a single line when no request succeeded. JSON and YAML forms
// carry the same statistics plus the run ID and target.
package output
