package view_test

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/view"
)

func TestEntryForm(t *testing.T) {
	today := time.Date(2025, 5, 20, 15, 4, 5, 0, time.UTC)

	t.Run("defaults", func(t *testing.T) {
		f := view.NewEntryForm(today)
		gt.Value(t, f.State).Equal(view.EntryEditing)
		gt.Value(t, f.DateString()).Equal("2025-05-20")
		gt.Value(t, f.Preview()).Equal(50)

		sections := f.Sections(cis18.LocaleEN)
		gt.Array(t, sections).Length(9)
		gt.Value(t, sections[0].Name).Equal("Asset Inventory")
		gt.Array(t, sections[0].Controls).Length(2)
		gt.Value(t, sections[8].Controls[1].Number).Equal(18)
		gt.Value(t, sections[8].Controls[1].Field).Equal("control18")
	})

	t.Run("parse clamps and keeps defaults", func(t *testing.T) {
		f := view.ParseEntryForm(url.Values{
			"assessmentDate": {"2025-04-01"},
			"control1":       {"150"},
			"control2":       {"-5"},
			"control3":       {"72.9"},
			"control4":       {"abc"},
		}, today)
		gt.Value(t, f.DateString()).Equal("2025-04-01")
		gt.Value(t, f.Values[0]).Equal(100)
		gt.Value(t, f.Values[1]).Equal(0)
		gt.Value(t, f.Values[2]).Equal(72)
		gt.Value(t, f.Values[3]).Equal(50)
		gt.Value(t, f.Values[17]).Equal(50)

		huge := view.ParseEntryForm(url.Values{
			"control1": {"1e300"},
			"control2": {"-1e300"},
			"control3": {"150.5"},
			"control4": {"99999999999999999999"},
			"control5": {"1e400"},
			"control6": {"NaN"},
		}, today)
		gt.Value(t, huge.Values[0]).Equal(100)
		gt.Value(t, huge.Values[1]).Equal(0)
		gt.Value(t, huge.Values[2]).Equal(100)
		gt.Value(t, huge.Values[3]).Equal(100)
		gt.Value(t, huge.Values[4]).Equal(100)
		gt.Value(t, huge.Values[5]).Equal(50)

		bad := view.ParseEntryForm(url.Values{"assessmentDate": {"yesterday"}}, today)
		gt.Value(t, bad.DateString()).Equal("2025-05-20")
	})

	t.Run("submit, fail and retry keeps values", func(t *testing.T) {
		f := view.ParseEntryForm(url.Values{"control1": {"10"}}, today)
		orgID := types.NewOrganizationID()
		userID := types.NewUserID()

		a, err := f.Submit(orgID, userID)
		gt.NoError(t, err).Required()
		gt.Value(t, f.State).Equal(view.EntrySubmitting)
		gt.Value(t, a.OrganizationID).Equal(orgID)
		gt.Value(t, a.ImportMethod).Equal(types.ImportMethodManual)
		gt.Value(t, a.ImportedBy).Equal(userID.String())
		gt.Value(t, *a.Controls.Get(1)).Equal(10)
		gt.Value(t, a.Controls.Present()).Equal(18)

		_, err = f.Submit(orgID, userID)
		gt.Bool(t, errors.Is(err, view.ErrInvalidTransition)).True()

		gt.NoError(t, f.Fail("could not save, please retry")).Required()
		gt.Value(t, f.State).Equal(view.EntryEditing)
		gt.Value(t, f.Error).Equal("could not save, please retry")
		gt.Value(t, f.Values[0]).Equal(10)

		_, err = f.Submit(orgID, userID)
		gt.NoError(t, err).Required()
		gt.Value(t, f.Error).Equal("")
		gt.NoError(t, f.Succeed()).Required()
		gt.Value(t, f.State).Equal(view.EntrySubmitted)

		gt.Bool(t, errors.Is(f.Succeed(), view.ErrInvalidTransition)).True()
		gt.Bool(t, errors.Is(f.Fail("x"), view.ErrInvalidTransition)).True()
	})
}
