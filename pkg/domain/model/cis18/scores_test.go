package cis18_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
)

func scoresOf(values ...int) cis18.Scores {
	var s cis18.Scores
	for i, v := range values {
		s[i] = cis18.Score(v)
	}
	return s
}

func TestMean(t *testing.T) {
	t.Run("no scores is zero", func(t *testing.T) {
		gt.Value(t, cis18.Mean(cis18.Scores{})).Equal(0)
	})

	t.Run("single score returns itself", func(t *testing.T) {
		for _, v := range []int{0, 35, 100} {
			var s cis18.Scores
			s.Set(7, cis18.Score(v))
			gt.Value(t, cis18.Mean(s)).Equal(v)
		}
	})

	t.Run("mixed grid", func(t *testing.T) {
		s := scoresOf(20, 20, 20, 20, 20, 20, 100, 100, 100, 100, 100, 100, 60, 60, 60, 60, 60, 60)
		gt.Value(t, cis18.Mean(s)).Equal(60)
	})

	t.Run("absent scores are ignored", func(t *testing.T) {
		var s cis18.Scores
		s.Set(1, cis18.Score(40))
		s.Set(18, cis18.Score(80))
		gt.Value(t, cis18.Mean(s)).Equal(60)
	})

	t.Run("halves round away from zero", func(t *testing.T) {
		gt.Value(t, cis18.MeanOf(cis18.Score(10), cis18.Score(15))).Equal(13)
		gt.Value(t, cis18.MeanOf(cis18.Score(0), cis18.Score(1))).Equal(1)
	})

	t.Run("out of range values are not validated", func(t *testing.T) {
		gt.Value(t, cis18.MeanOf(cis18.Score(150), cis18.Score(50))).Equal(100)
	})
}

func TestScoresAccessors(t *testing.T) {
	var s cis18.Scores
	s.Set(0, cis18.Score(1))
	s.Set(19, cis18.Score(1))
	gt.Value(t, s.Present()).Equal(0)
	gt.Value(t, s.Get(0)).Nil()

	v := 70
	s.Set(3, &v)
	v = 10
	gt.Value(t, *s.Get(3)).Equal(70)

	c := s.Clone()
	gt.Bool(t, c.Equal(s)).True()
	c.Set(3, nil)
	gt.Bool(t, c.Equal(s)).False()
	gt.Value(t, *s.Get(3)).Equal(70)
}

func TestClamp(t *testing.T) {
	gt.Value(t, cis18.Clamp(-5)).Equal(0)
	gt.Value(t, cis18.Clamp(55)).Equal(55)
	gt.Value(t, cis18.Clamp(101)).Equal(100)
}
