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

func TestOrganizationUseCase(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewOrganizationUseCase(memory.New())

	acme, err := uc.CreateOrganization(ctx, " Acme Corp ", "Acme")
	gt.NoError(t, err).Required()
	gt.Value(t, acme.Name).Equal("Acme Corp")
	gt.Value(t, acme.Slug).Equal("acme")

	t.Run("slug must be unique", func(t *testing.T) {
		_, err := uc.CreateOrganization(ctx, "Other", "acme")
		gt.Bool(t, errors.Is(err, usecase.ErrSlugTaken)).True()
	})

	t.Run("slug format", func(t *testing.T) {
		_, err := uc.CreateOrganization(ctx, "Other", "not a slug")
		gt.Bool(t, usecase.IsInvalidInput(err)).True()
	})

	t.Run("lookup by slug", func(t *testing.T) {
		got, err := uc.GetOrganizationBySlug(ctx, "acme")
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(acme.ID)

		_, err = uc.GetOrganizationBySlug(ctx, "missing")
		gt.Bool(t, errors.Is(err, usecase.ErrNotFound)).True()
	})

	t.Run("update keeps own slug and rejects taken one", func(t *testing.T) {
		beta, err := uc.CreateOrganization(ctx, "Beta", "beta")
		gt.NoError(t, err).Required()

		updated, err := uc.UpdateOrganization(ctx, acme.ID, "Acme Inc", "acme")
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Name).Equal("Acme Inc")

		_, err = uc.UpdateOrganization(ctx, beta.ID, "Beta", "acme")
		gt.Bool(t, errors.Is(err, usecase.ErrSlugTaken)).True()
	})

	t.Run("list ordered by name and delete", func(t *testing.T) {
		orgs, err := uc.ListOrganizations(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, orgs).Length(2)
		gt.Value(t, orgs[0].Name).Equal("Acme Inc")

		gt.NoError(t, uc.DeleteOrganization(ctx, acme.ID)).Required()
		_, err = uc.GetOrganization(ctx, acme.ID)
		gt.Bool(t, errors.Is(err, usecase.ErrNotFound)).True()

		err = uc.DeleteOrganization(ctx, types.NewOrganizationID())
		gt.Bool(t, errors.Is(err, usecase.ErrNotFound)).True()
	})
}
