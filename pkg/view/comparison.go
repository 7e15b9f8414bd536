package view

import (
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// ComparisonRow is the delta of one control, or of the total when Number is 0
type ComparisonRow struct {
	Number int
	Name   string
	cis18.Delta
}

// AssessmentOption is a selectable side of the comparison
type AssessmentOption struct {
	ID   types.AssessmentID
	Date string
}

// Comparison is the pairwise view. Available is false with fewer than 2 assessments.
type Comparison struct {
	Available bool
	Options   []AssessmentOption
	Left      *model.Assessment
	Right     *model.Assessment
	Rows      []ComparisonRow
	Total     ComparisonRow
	Improved  int
	Unchanged int
	Worsened  int
}

// BuildComparison compares left - right. list is ordered newest first; empty or
// unknown IDs default to the newest (left) and the second newest (right). Selecting
// the same assessment on both sides moves the right side to another one.
func BuildComparison(list []*model.Assessment, leftID, rightID types.AssessmentID, locale cis18.Locale) *Comparison {
	c := &Comparison{}
	if len(list) < 2 {
		return c
	}
	c.Available = true
	for _, a := range list {
		c.Options = append(c.Options, AssessmentOption{ID: a.ID, Date: a.DateString()})
	}

	c.Left = find(list, leftID)
	if c.Left == nil {
		c.Left = list[0]
	}
	c.Right = find(list, rightID)
	if c.Right == nil || c.Right.ID == c.Left.ID {
		c.Right = list[1]
		if c.Right.ID == c.Left.ID {
			c.Right = list[0]
		}
	}

	cmp := cis18.Compare(c.Left.Controls, c.Right.Controls)
	for _, ctl := range cis18.Controls() {
		c.Rows = append(c.Rows, ComparisonRow{
			Number: ctl.Number,
			Name:   ctl.Name(locale),
			Delta:  cmp.Controls[ctl.Number-1],
		})
	}
	c.Total = ComparisonRow{Name: cis18.ColumnLabel(types.ColumnTotalScore, locale), Delta: cmp.Total}
	c.Improved = cmp.Improved
	c.Unchanged = cmp.Unchanged
	c.Worsened = cmp.Worsened
	return c
}

func find(list []*model.Assessment, id types.AssessmentID) *model.Assessment {
	if id == "" {
		return nil
	}
	for _, a := range list {
		if a.ID == id {
			return a
		}
	}
	return nil
}
