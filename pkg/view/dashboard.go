package view

import (
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// DashboardInput is everything the dashboard page needs to build its active view
type DashboardInput struct {
	Mode        types.ViewMode
	Assessments []*model.Assessment // newest first
	Visible     []types.ColumnID
	Query       TableQuery
	LeftID      types.AssessmentID
	RightID     types.AssessmentID
	Locale      cis18.Locale
}

// Dashboard is the view-model of the assessment dashboard. Only the section of the
// active mode is populated.
type Dashboard struct {
	Mode       types.ViewMode
	Modes      []types.ViewMode
	Latest     *model.Assessment
	Count      int
	Cards      []Card
	Table      *Table
	Comparison *Comparison
}

// BuildDashboard builds the view of in.Mode. Unknown modes show cards.
func BuildDashboard(in DashboardInput) *Dashboard {
	d := &Dashboard{
		Mode:  in.Mode,
		Modes: types.AllViewModes(),
		Count: len(in.Assessments),
	}
	if !d.Mode.IsValid() {
		d.Mode = types.ViewModeCards
	}
	if len(in.Assessments) > 0 {
		d.Latest = in.Assessments[0]
	}

	switch d.Mode {
	case types.ViewModeTable:
		d.Table = BuildTable(in.Assessments, in.Visible, in.Query, in.Locale)
	case types.ViewModeComparison:
		d.Comparison = BuildComparison(in.Assessments, in.LeftID, in.RightID, in.Locale)
	default:
		d.Cards = BuildCards(in.Assessments, in.Locale)
	}
	return d
}
