package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

func TestUserAuthorization(t *testing.T) {
	orgA := types.NewOrganizationID()
	orgB := types.NewOrganizationID()

	platform := &model.User{Role: types.UserRolePlatformAdmin}
	admin := &model.User{Role: types.UserRoleOrgAdmin, OrganizationID: orgA}
	member := &model.User{Role: types.UserRoleMember, OrganizationID: orgA}

	gt.Bool(t, platform.CanAdmin(orgB)).True()
	gt.Bool(t, admin.CanAdmin(orgA)).True()
	gt.Bool(t, admin.CanAdmin(orgB)).False()
	gt.Bool(t, member.CanAdmin(orgA)).False()
	gt.Bool(t, member.CanView(orgA)).True()
	gt.Bool(t, member.CanView(orgB)).False()

	var nobody *model.User
	gt.Bool(t, nobody.CanView(orgA)).False()
}

func TestUserValidate(t *testing.T) {
	gt.NoError(t, (&model.User{Email: "root@example.com", Role: types.UserRolePlatformAdmin}).Validate())
	gt.Error(t, (&model.User{Email: "member@example.com", Role: types.UserRoleMember}).Validate())
	gt.Error(t, (&model.User{Email: "x@example.com", Role: "guest"}).Validate())
	gt.Value(t, model.NormalizeEmail("  Alice@Example.COM ")).Equal("alice@example.com")
}

func TestNormalizeColumns(t *testing.T) {
	cols, ok := model.NormalizeColumns([]types.ColumnID{"control3", "bogus", types.ColumnTotalScore, "control3"})
	gt.Bool(t, ok).True()
	gt.Value(t, cols).Equal([]types.ColumnID{types.ColumnTotalScore, "control3"})

	_, ok = model.NormalizeColumns([]types.ColumnID{"bogus"})
	gt.Bool(t, ok).False()
}

func TestOrganizationValidate(t *testing.T) {
	gt.NoError(t, (&model.Organization{Name: "Acme", Slug: "acme-corp"}).Validate())
	gt.Error(t, (&model.Organization{Name: "Acme", Slug: "Acme Corp"}).Validate())
	gt.Error(t, (&model.Organization{Slug: "acme"}).Validate())
}
