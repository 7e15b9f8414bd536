package view_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/view"
)

func TestBuildCards(t *testing.T) {
	newer := assessment("2025-06-01", map[int]int{1: 90, 2: 80, 3: 80, 7: 10, 13: 50})
	older := assessment("2025-01-01", map[int]int{1: 40, 2: 40})

	cards := view.BuildCards([]*model.Assessment{newer, older}, cis18.LocaleEN)
	gt.Array(t, cards).Length(2)

	t.Run("total and trend against the previous assessment", func(t *testing.T) {
		gt.Value(t, cards[0].Total).Equal(62)
		gt.Value(t, cards[0].Trend).NotNil()
		gt.Value(t, cards[0].Trend.Delta).Equal(22)
		gt.Value(t, cards[0].Trend.Direction).Equal(cis18.DirectionUp)
	})

	t.Run("oldest card has no trend", func(t *testing.T) {
		gt.Value(t, cards[1].Trend).Nil()
	})

	t.Run("group subtotals", func(t *testing.T) {
		gt.Array(t, cards[0].Groups).Length(3)
		gt.Value(t, cards[0].Groups[0].Subtotal).Equal(83)
		gt.Value(t, cards[0].Groups[1].Subtotal).Equal(10)
		gt.Value(t, cards[0].Groups[2].Subtotal).Equal(50)
		gt.Array(t, cards[0].Groups[0].Controls).Length(6)
		gt.Value(t, cards[0].Groups[0].Controls[3].Score).Nil()
		gt.Value(t, cards[0].Groups[0].Name).Equal("Basic Controls")
	})

	t.Run("top and bottom are stable by control number", func(t *testing.T) {
		gt.Array(t, cards[0].Top).Length(3)
		gt.Value(t, cards[0].Top[0].Number).Equal(1)
		gt.Value(t, cards[0].Top[1].Number).Equal(2)
		gt.Value(t, cards[0].Top[2].Number).Equal(3)

		gt.Array(t, cards[0].Bottom).Length(3)
		gt.Value(t, cards[0].Bottom[0].Number).Equal(3)
		gt.Value(t, cards[0].Bottom[1].Number).Equal(13)
		gt.Value(t, cards[0].Bottom[2].Number).Equal(7)
	})

	t.Run("flat trend", func(t *testing.T) {
		a := assessment("2025-02-01", map[int]int{1: 40})
		b := assessment("2025-01-01", map[int]int{2: 40})
		cards := view.BuildCards([]*model.Assessment{a, b}, cis18.LocaleEN)
		gt.Value(t, cards[0].Trend.Direction).Equal(cis18.DirectionFlat)
	})
}

func TestBuildCardsSingle(t *testing.T) {
	cards := view.BuildCards([]*model.Assessment{assessment("2025-01-01", nil)}, cis18.LocaleJA)
	gt.Array(t, cards).Length(1)
	gt.Value(t, cards[0].Trend).Nil()
	gt.Value(t, cards[0].Total).Equal(0)
	gt.Array(t, cards[0].Top).Length(0)
	gt.Value(t, cards[0].Groups[0].Name).Equal("基本的なコントロール")
}
