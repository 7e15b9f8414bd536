// Package cis18 holds the CIS Controls v8 catalog and the pure score arithmetic shared by
// the store, the dashboard views, the entry form and the export.
package cis18

import (
	"math"

	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// Scores holds the 18 control scores of an assessment. Index i is control i+1.
// A nil entry means the control has not been assessed yet.
type Scores [types.ControlCount]*int

// Score returns a pointer to v, for building Scores literals.
func Score(v int) *int {
	return &v
}

// Get returns the score of the n-th control (1-based), or nil if absent or out of range.
func (s Scores) Get(n int) *int {
	if n < 1 || n > types.ControlCount {
		return nil
	}
	return s[n-1]
}

// Set stores a copy of v as the score of the n-th control (1-based). Out of range n is ignored.
func (s *Scores) Set(n int, v *int) {
	if n < 1 || n > types.ControlCount {
		return
	}
	if v == nil {
		s[n-1] = nil
		return
	}
	s[n-1] = Score(*v)
}

// Clone returns a deep copy
func (s Scores) Clone() Scores {
	var out Scores
	for i, v := range s {
		if v != nil {
			out[i] = Score(*v)
		}
	}
	return out
}

// Present returns the number of assessed controls
func (s Scores) Present() int {
	n := 0
	for _, v := range s {
		if v != nil {
			n++
		}
	}
	return n
}

// Equal reports whether both score sets hold the same values at the same positions
func (s Scores) Equal(other Scores) bool {
	for i := range s {
		a, b := s[i], other[i]
		if (a == nil) != (b == nil) {
			return false
		}
		if a != nil && *a != *b {
			return false
		}
	}
	return true
}

// Mean returns the rounded arithmetic mean of the present scores, or 0 when none is present.
// Halves round away from zero. Values are not range checked.
func Mean(s Scores) int {
	return MeanOf(s[:]...)
}

// MeanOf is Mean over an arbitrary subset of scores.
func MeanOf(values ...*int) int {
	sum, n := 0, 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// Subset returns the scores of the given control numbers, in order.
func (s Scores) Subset(numbers ...int) []*int {
	out := make([]*int, len(numbers))
	for i, n := range numbers {
		out[i] = s.Get(n)
	}
	return out
}

// Clamp limits v to the [0,100] score range.
func Clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
