package view

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// DefaultEntryScore is the initial value of every slider
const DefaultEntryScore = 50

// ErrInvalidTransition is returned when the entry form is driven out of order
var ErrInvalidTransition = goerr.New("invalid entry form transition")

// EntryState is the submission state of the manual entry form
type EntryState string

const (
	EntryEditing    EntryState = "editing"
	EntrySubmitting EntryState = "submitting"
	EntrySubmitted  EntryState = "submitted"
)

// EntryControl is one slider of the form
type EntryControl struct {
	Number int
	Name   string
	Field  string
	Value  int
}

// EntrySection is a named pair of sliders
type EntrySection struct {
	Key      string
	Name     string
	Controls []EntryControl
}

// EntryForm holds the values of the manual entry form across re-renders
type EntryForm struct {
	State  EntryState
	Date   time.Time
	Values [types.ControlCount]int
	Error  string
}

// NewEntryForm returns a form in the editing state with every control at the default
func NewEntryForm(date time.Time) *EntryForm {
	f := &EntryForm{State: EntryEditing, Date: model.DateOf(date)}
	for i := range f.Values {
		f.Values[i] = DefaultEntryScore
	}
	return f
}

// ControlField is the form field name of the n-th control
func ControlField(n int) string {
	return types.ControlColumn(n).String()
}

// ParseEntryForm reads a submitted form. Scores are clamped to [0,100]; missing or
// unparsable scores keep the default. An unparsable date keeps today.
func ParseEntryForm(v url.Values, today time.Time) *EntryForm {
	f := NewEntryForm(today)
	if s := strings.TrimSpace(v.Get("assessmentDate")); s != "" {
		if d, err := model.ParseDate(s); err == nil {
			f.Date = d
		}
	}
	for n := 1; n <= types.ControlCount; n++ {
		raw := strings.TrimSpace(v.Get(ControlField(n)))
		if raw == "" {
			continue
		}
		if val, err := strconv.Atoi(raw); err == nil {
			f.Values[n-1] = cis18.Clamp(val)
			continue
		}
		fv, err := strconv.ParseFloat(raw, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) || math.IsNaN(fv) {
			continue
		}
		// clamped as float; huge values would overflow int
		f.Values[n-1] = int(math.Max(0, math.Min(100, fv)))
	}
	return f
}

// Scores returns the form values as assessment scores
func (f *EntryForm) Scores() cis18.Scores {
	var s cis18.Scores
	for i, v := range f.Values {
		s.Set(i+1, cis18.Score(v))
	}
	return s
}

// Preview returns the total score the assessment will get
func (f *EntryForm) Preview() int {
	return cis18.Mean(f.Scores())
}

// DateString returns the date in the form input layout
func (f *EntryForm) DateString() string {
	return f.Date.Format(model.DateLayout)
}

// Sections groups the sliders into the entry pairings
func (f *EntryForm) Sections(locale cis18.Locale) []EntrySection {
	pairs := cis18.EntryPairs()
	out := make([]EntrySection, 0, len(pairs))
	for _, p := range pairs {
		sec := EntrySection{Key: p.Key, Name: p.Name(locale)}
		for _, n := range p.Controls {
			ec := EntryControl{Number: n, Field: ControlField(n), Value: f.Values[n-1]}
			if c, ok := cis18.ControlByNumber(n); ok {
				ec.Name = c.Name(locale)
			}
			sec.Controls = append(sec.Controls, ec)
		}
		out = append(out, sec)
	}
	return out
}

// Submit moves editing to submitting and returns the assessment to create
func (f *EntryForm) Submit(orgID types.OrganizationID, userID types.UserID) (*model.Assessment, error) {
	if f.State != EntryEditing {
		return nil, goerr.Wrap(ErrInvalidTransition, "form is not editable", goerr.V("state", f.State))
	}
	f.State = EntrySubmitting
	f.Error = ""
	return &model.Assessment{
		OrganizationID: orgID,
		AssessmentDate: f.Date,
		Controls:       f.Scores(),
		ImportMethod:   types.ImportMethodManual,
		ImportedBy:     userID.String(),
	}, nil
}

// Fail returns a submitting form to editing with msg shown and all values kept
func (f *EntryForm) Fail(msg string) error {
	if f.State != EntrySubmitting {
		return goerr.Wrap(ErrInvalidTransition, "form is not submitting", goerr.V("state", f.State))
	}
	f.State = EntryEditing
	f.Error = msg
	return nil
}

// Succeed marks the form as submitted. Submitted is terminal.
func (f *EntryForm) Succeed() error {
	if f.State != EntrySubmitting {
		return goerr.Wrap(ErrInvalidTransition, "form is not submitting", goerr.V("state", f.State))
	}
	f.State = EntrySubmitted
	return nil
}
