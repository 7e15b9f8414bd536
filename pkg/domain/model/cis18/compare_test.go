package cis18_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
)

func TestCompareAntisymmetry(t *testing.T) {
	var a, b cis18.Scores
	a.Set(1, cis18.Score(80))
	b.Set(1, cis18.Score(60))

	ab := cis18.Compare(a, b)
	gt.Value(t, *ab.Controls[0].Delta).Equal(20)
	gt.Value(t, ab.Controls[0].Direction).Equal(cis18.DirectionUp)

	ba := cis18.Compare(b, a)
	gt.Value(t, *ba.Controls[0].Delta).Equal(-20)
	gt.Value(t, ba.Controls[0].Direction).Equal(cis18.DirectionDown)
}

func TestCompareCounts(t *testing.T) {
	var left, right cis18.Scores
	for n := 1; n <= 18; n++ {
		right.Set(n, cis18.Score(50))
		switch {
		case n <= 5:
			left.Set(n, cis18.Score(60))
		case n <= 8:
			left.Set(n, cis18.Score(50))
		default:
			left.Set(n, cis18.Score(40))
		}
	}

	c := cis18.Compare(left, right)
	gt.Value(t, c.Improved).Equal(5)
	gt.Value(t, c.Unchanged).Equal(3)
	gt.Value(t, c.Worsened).Equal(10)
	gt.Value(t, c.Improved+c.Unchanged+c.Worsened).Equal(18)
}

func TestCompareMissingSides(t *testing.T) {
	var left, right cis18.Scores
	left.Set(1, cis18.Score(70))
	right.Set(2, cis18.Score(70))
	left.Set(3, cis18.Score(70))
	right.Set(3, cis18.Score(70))

	c := cis18.Compare(left, right)
	gt.Bool(t, c.Controls[0].HasData()).False()
	gt.Bool(t, c.Controls[1].HasData()).False()
	gt.Bool(t, c.Controls[2].HasData()).True()
	gt.Value(t, c.Improved+c.Unchanged+c.Worsened).Equal(1)
	gt.Value(t, c.Unchanged).Equal(1)
	gt.Value(t, *c.Total.Delta).Equal(0)
}

func TestTrend(t *testing.T) {
	gt.Value(t, cis18.NewTrend(70, 60).Direction).Equal(cis18.DirectionUp)
	gt.Value(t, cis18.NewTrend(60, 70).Delta).Equal(-10)
	gt.Value(t, cis18.NewTrend(60, 60).Direction).Equal(cis18.DirectionFlat)
}

func TestRank(t *testing.T) {
	var s cis18.Scores
	s.Set(1, cis18.Score(50))
	s.Set(2, cis18.Score(90))
	s.Set(3, cis18.Score(50))
	s.Set(4, cis18.Score(10))
	s.Set(5, cis18.Score(90))

	top := cis18.Top(s, 3)
	gt.Value(t, top).Equal([]cis18.RankedControl{
		{Number: 2, Score: 90},
		{Number: 5, Score: 90},
		{Number: 1, Score: 50},
	})

	bottom := cis18.Bottom(s, 3)
	gt.Value(t, bottom).Equal([]cis18.RankedControl{
		{Number: 1, Score: 50},
		{Number: 3, Score: 50},
		{Number: 4, Score: 10},
	})

	gt.Array(t, cis18.Top(cis18.Scores{}, 3)).Length(0)
}
