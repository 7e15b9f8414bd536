package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/repository/memory"
	"github.com/secmon-lab/cisboard/pkg/usecase"
)

func TestUserUseCase(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo)
	org := newOrg(t, repo, "acme")

	admin := newUser(t, uc, "Admin@Acme.test", types.UserRoleOrgAdmin, org.ID)

	t.Run("email is normalized and hash stored", func(t *testing.T) {
		gt.Value(t, admin.Email).Equal("admin@acme.test")
		gt.Value(t, admin.PasswordHash).NotEqual("")
		gt.Value(t, admin.PasswordHash).NotEqual("correct horse battery")
	})

	t.Run("email must be unique", func(t *testing.T) {
		_, err := uc.User.CreateUser(ctx, usecase.CreateUserInput{
			Email: "ADMIN@acme.test", Password: "correct horse battery",
			Role: types.UserRoleMember, OrganizationID: org.ID,
		})
		gt.Bool(t, errors.Is(err, usecase.ErrEmailTaken)).True()
	})

	t.Run("organization must exist", func(t *testing.T) {
		_, err := uc.User.CreateUser(ctx, usecase.CreateUserInput{
			Email: "x@acme.test", Password: "correct horse battery",
			Role: types.UserRoleMember, OrganizationID: types.NewOrganizationID(),
		})
		gt.Bool(t, errors.Is(err, usecase.ErrNotFound)).True()
	})

	t.Run("members need an organization", func(t *testing.T) {
		_, err := uc.User.CreateUser(ctx, usecase.CreateUserInput{
			Email: "y@acme.test", Password: "correct horse battery", Role: types.UserRoleMember,
		})
		gt.Bool(t, usecase.IsInvalidInput(err)).True()
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := uc.User.CreateUser(ctx, usecase.CreateUserInput{
			Email: "z@acme.test", Password: "123", Role: types.UserRoleMember, OrganizationID: org.ID,
		})
		gt.Bool(t, errors.Is(err, usecase.ErrWeakPassword)).True()
	})

	t.Run("platform admins drop the organization", func(t *testing.T) {
		u := newUser(t, uc, "root@platform.test", types.UserRolePlatformAdmin, org.ID)
		gt.Value(t, u.OrganizationID).Equal(types.OrganizationID(""))
	})

	t.Run("get by email", func(t *testing.T) {
		u, err := uc.User.GetUserByEmail(ctx, " ADMIN@acme.test ")
		gt.NoError(t, err).Required()
		gt.Value(t, u.ID).Equal(admin.ID)

		_, err = uc.User.GetUserByEmail(ctx, "nobody@acme.test")
		gt.Bool(t, errors.Is(err, usecase.ErrNotFound)).True()
	})

	t.Run("change password", func(t *testing.T) {
		gt.NoError(t, uc.User.ChangePassword(ctx, admin.ID, "another long password")).Required()
		u, err := uc.User.GetUser(ctx, admin.ID)
		gt.NoError(t, err).Required()
		ok, err := usecase.VerifyPassword(u.PasswordHash, "another long password")
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).True()
	})

	t.Run("update role", func(t *testing.T) {
		u, err := uc.User.UpdateRole(ctx, admin.ID, types.UserRoleMember, org.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, u.Role).Equal(types.UserRoleMember)

		_, err = uc.User.UpdateRole(ctx, admin.ID, "superuser", org.ID)
		gt.Bool(t, usecase.IsInvalidInput(err)).True()
	})

	t.Run("list by organization", func(t *testing.T) {
		users, err := uc.User.ListUsers(ctx, org.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, users).Length(1)

		all, err := uc.User.ListUsers(ctx, "")
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(2)
	})
}

func TestAuthorization(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	orgID := newOrg(t, repo, "acme").ID

	platform := newUser(t, uc, "p@example.com", types.UserRolePlatformAdmin, "")
	orgAdmin := newUser(t, uc, "a@example.com", types.UserRoleOrgAdmin, orgID)
	member := newUser(t, uc, "m@example.com", types.UserRoleMember, orgID)
	other := types.NewOrganizationID()

	gt.NoError(t, usecase.RequireOrgAdmin(platform, other))
	gt.NoError(t, usecase.RequireOrgAdmin(orgAdmin, orgID))
	gt.Bool(t, errors.Is(usecase.RequireOrgAdmin(orgAdmin, other), usecase.ErrPermissionDenied)).True()
	gt.Bool(t, errors.Is(usecase.RequireOrgAdmin(member, orgID), usecase.ErrPermissionDenied)).True()

	gt.NoError(t, usecase.RequireOrgMember(member, orgID))
	gt.Bool(t, errors.Is(usecase.RequireOrgMember(member, other), usecase.ErrPermissionDenied)).True()
	gt.Bool(t, errors.Is(usecase.RequireOrgMember(nil, orgID), usecase.ErrPermissionDenied)).True()

	gt.NoError(t, usecase.RequirePlatformAdmin(platform))
	gt.Bool(t, errors.Is(usecase.RequirePlatformAdmin(orgAdmin), usecase.ErrPermissionDenied)).True()
}
