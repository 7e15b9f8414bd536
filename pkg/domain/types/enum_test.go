package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

func TestParseUserRole(t *testing.T) {
	for _, role := range types.AllUserRoles() {
		got, err := types.ParseUserRole(role.String())
		gt.NoError(t, err)
		gt.V(t, got).Equal(role)
	}

	_, err := types.ParseUserRole("root")
	gt.Error(t, err)
}

func TestParseServiceKind(t *testing.T) {
	gt.Array(t, types.AllServiceKinds()).Length(5)
	for _, k := range types.AllServiceKinds() {
		got, err := types.ParseServiceKind(k.String())
		gt.NoError(t, err)
		gt.V(t, got).Equal(k)
	}

	_, err := types.ParseServiceKind("")
	gt.Error(t, err)
}

func TestParseServiceRequestStatus(t *testing.T) {
	for _, s := range types.AllServiceRequestStatuses() {
		gt.B(t, s.IsValid()).True()
	}
	_, err := types.ParseServiceRequestStatus("closed")
	gt.Error(t, err)
}

func TestParseEmailProviderKind(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"smtp", false},
		{"sendgrid", false},
		{"resend", false},
		{"mailgun", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := types.ParseEmailProviderKind(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestParseViewMode(t *testing.T) {
	gt.V(t, types.ParseViewMode("table")).Equal(types.ViewModeTable)
	gt.V(t, types.ParseViewMode("comparison")).Equal(types.ViewModeComparison)
	gt.V(t, types.ParseViewMode("")).Equal(types.ViewModeCards)
	gt.V(t, types.ParseViewMode("kanban")).Equal(types.ViewModeCards)
}

func TestIDs(t *testing.T) {
	id := types.NewAssessmentID()
	gt.NoError(t, id.Validate())
	gt.Value(t, id).NotEqual(types.NewAssessmentID())

	gt.Error(t, types.AssessmentID("").Validate()).Is(types.ErrInvalidID)
	gt.Error(t, types.OrganizationID("not-a-uuid").Validate()).Is(types.ErrInvalidID)
	gt.NoError(t, types.NewOrganizationID().Validate())
}
