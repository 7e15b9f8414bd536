package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// DateLayout is the calendar date format used for assessment dates
const DateLayout = "2006-01-02"

// Assessment is a dated snapshot of an organization's 18 control scores
type Assessment struct {
	ID             types.AssessmentID
	OrganizationID types.OrganizationID
	AssessmentDate time.Time // midnight UTC
	Controls       cis18.Scores
	TotalScore     *int
	ImportMethod   types.ImportMethod // empty when not recorded
	ImportedBy     string             // empty when not recorded
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Mean returns the score derived from the controls
func (a *Assessment) Mean() int {
	return cis18.Mean(a.Controls)
}

// TotalDrifted reports whether the stored total differs from the control mean
func (a *Assessment) TotalDrifted() bool {
	return a.TotalScore == nil || *a.TotalScore != a.Mean()
}

// DateString returns the assessment date as YYYY-MM-DD
func (a *Assessment) DateString() string {
	return a.AssessmentDate.Format(DateLayout)
}

// Clone returns a deep copy
func (a *Assessment) Clone() *Assessment {
	if a == nil {
		return nil
	}
	c := *a
	c.Controls = a.Controls.Clone()
	if a.TotalScore != nil {
		c.TotalScore = cis18.Score(*a.TotalScore)
	}
	return &c
}

// Validate checks the organization and the score ranges
func (a *Assessment) Validate() error {
	if err := a.OrganizationID.Validate(); err != nil {
		return goerr.Wrap(err, "assessment requires an organization")
	}
	for i, v := range a.Controls {
		if err := validateScore(types.ControlColumn(i+1).String(), v); err != nil {
			return err
		}
	}
	return validateScore(types.ColumnTotalScore.String(), a.TotalScore)
}

func validateScore(field string, v *int) error {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > 100 {
		return goerr.Wrap(ErrOutOfRange, "score must be between 0 and 100",
			goerr.V(FieldKey, field), goerr.V(ValueKey, *v))
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, goerr.Wrap(ErrInvalidFormat, "date must be YYYY-MM-DD", goerr.V(ValueKey, s))
	}
	return t, nil
}

// DateOf truncates t to its calendar date in UTC, keeping t's own year, month and day
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AssessmentPatch carries the fields of a partial update. Nil pointers are left
// untouched. A key present in Controls with a nil value clears that control.
type AssessmentPatch struct {
	AssessmentDate *time.Time
	Controls       map[int]*int
	ImportMethod   *types.ImportMethod
	ImportedBy     *string
}

// Validate checks control numbers and score ranges of the patch
func (p *AssessmentPatch) Validate() error {
	for n, v := range p.Controls {
		if n < 1 || n > types.ControlCount {
			return goerr.Wrap(ErrOutOfRange, "unknown control", goerr.V(FieldKey, n))
		}
		if err := validateScore(types.ControlColumn(n).String(), v); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges the patch into a and reports whether any control changed
func (p *AssessmentPatch) Apply(a *Assessment) bool {
	if p.AssessmentDate != nil {
		a.AssessmentDate = DateOf(*p.AssessmentDate)
	}
	if p.ImportMethod != nil {
		a.ImportMethod = *p.ImportMethod
	}
	if p.ImportedBy != nil {
		a.ImportedBy = *p.ImportedBy
	}
	for n, v := range p.Controls {
		a.Controls.Set(n, v)
	}
	return len(p.Controls) > 0
}
