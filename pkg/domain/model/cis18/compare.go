package cis18

import "github.com/secmon-lab/cisboard/pkg/domain/types"

// Direction is the sign of a delta
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// DirectionOf returns the direction of delta
func DirectionOf(delta int) Direction {
	switch {
	case delta > 0:
		return DirectionUp
	case delta < 0:
		return DirectionDown
	default:
		return DirectionFlat
	}
}

// Trend is the change of a total score against the previous assessment
type Trend struct {
	Delta     int
	Direction Direction
}

// NewTrend returns current - previous
func NewTrend(current, previous int) *Trend {
	d := current - previous
	return &Trend{Delta: d, Direction: DirectionOf(d)}
}

// Delta is one row of a comparison. Delta is nil when either side has no data.
type Delta struct {
	Left      *int
	Right     *int
	Delta     *int
	Direction Direction
}

// HasData reports whether both sides are present
func (d Delta) HasData() bool {
	return d.Delta != nil
}

func newDelta(left, right *int) Delta {
	d := Delta{Left: left, Right: right}
	if left != nil && right != nil {
		v := *left - *right
		d.Delta = &v
		d.Direction = DirectionOf(v)
	}
	return d
}

// Comparison holds left - right for every control and for the total score
type Comparison struct {
	Controls  [types.ControlCount]Delta
	Total     Delta
	Improved  int
	Unchanged int
	Worsened  int
}

// Compare computes left - right per control. Totals are derived with Mean on both sides.
// Controls missing on either side are excluded from the counts.
func Compare(left, right Scores) *Comparison {
	c := &Comparison{}
	for i := range left {
		d := newDelta(left[i], right[i])
		c.Controls[i] = d
		if !d.HasData() {
			continue
		}
		switch d.Direction {
		case DirectionUp:
			c.Improved++
		case DirectionDown:
			c.Worsened++
		default:
			c.Unchanged++
		}
	}
	c.Total = newDelta(Score(Mean(left)), Score(Mean(right)))
	return c
}
