package cis18

import "sort"

// RankedControl is a present control score with its control number
type RankedControl struct {
	Number int
	Score  int
}

// Rank returns the present controls sorted by score descending. Equal scores keep
// control-number order.
func Rank(s Scores) []RankedControl {
	out := make([]RankedControl, 0, len(s))
	for i, v := range s {
		if v != nil {
			out = append(out, RankedControl{Number: i + 1, Score: *v})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Top returns the first n entries of Rank(s)
func Top(s Scores, n int) []RankedControl {
	r := Rank(s)
	if len(r) > n {
		r = r[:n]
	}
	return r
}

// Bottom returns the last n entries of Rank(s), still in descending order
func Bottom(s Scores, n int) []RankedControl {
	r := Rank(s)
	if len(r) > n {
		r = r[len(r)-n:]
	}
	return r
}
