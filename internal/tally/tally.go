// Package tally reduces a detection sequence to per-denomination counts and a
// total monetary value.
package tally

import "github.com/ironsheep/coin-counter/internal/detection"

// Valuer resolves a label to its monetary value. Unknown labels return 0.
type Valuer interface {
	ValueOf(label string) int
}

// Result is the aggregation of one image's detections.
type Result struct {
	// Counts maps each label seen to how many times it was detected (always >= 1).
	Counts map[string]int `json:"counts"`
	// Total is the sum of the values of all detections.
	Total int `json:"total"`
}

// Aggregate counts every detection under its literal label, including labels the
// valuer does not know, and sums their values. No deduplication by overlap is
// performed.
func Aggregate(dets []detection.Detection, v Valuer) Result {
	res := Result{Counts: make(map[string]int)}
	for _, d := range dets {
		res.Counts[d.Label]++
		res.Total += v.ValueOf(d.Label)
	}
	return res
}

// Detections returns the number of detections that were aggregated.
func (r Result) Detections() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}
	return n
}

// Subtotal returns count * value for label.
func (r Result) Subtotal(label string, v Valuer) int {
	return r.Counts[label] * v.ValueOf(label)
}
