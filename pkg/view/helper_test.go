package view_test

import (
	"time"

	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

func assessment(date string, values map[int]int) *model.Assessment {
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		panic(err)
	}
	a := &model.Assessment{
		ID:             types.NewAssessmentID(),
		OrganizationID: types.NewOrganizationID(),
		AssessmentDate: d,
	}
	for n, v := range values {
		a.Controls.Set(n, cis18.Score(v))
	}
	return a
}
