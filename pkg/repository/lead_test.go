package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

func runLeadRepositoryTest(t *testing.T, newRepo repoFactory) {
	t.Run("create defaults status and list is newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		orgID := types.NewOrganizationID()

		first, err := repo.Lead().Create(ctx, &model.Lead{
			OrganizationID: orgID,
			Name:           "First",
			Email:          "first@example.com",
			CompanySize:    "11-50",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, first.Status).Equal(model.LeadStatusNew)

		time.Sleep(5 * time.Millisecond)
		second, err := repo.Lead().Create(ctx, &model.Lead{
			OrganizationID: orgID,
			Name:           "Second",
			Email:          "second@example.com",
			Status:         "contacted",
		})
		gt.NoError(t, err).Required()

		_, err = repo.Lead().Create(ctx, &model.Lead{
			OrganizationID: types.NewOrganizationID(),
			Name:           "Elsewhere",
			Email:          "x@example.com",
		})
		gt.NoError(t, err).Required()

		leads, err := repo.Lead().List(ctx, orgID)
		gt.NoError(t, err).Required()
		gt.Array(t, leads).Length(2)
		gt.Value(t, leads[0].ID).Equal(second.ID)
		gt.Value(t, leads[0].Status).Equal("contacted")
		gt.Value(t, leads[1].ID).Equal(first.ID)
		gt.Value(t, leads[1].CompanySize).Equal("11-50")
		gt.Value(t, leads[1].Phone).Equal("")
	})

	t.Run("update status and delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		orgID := types.NewOrganizationID()

		lead, err := repo.Lead().Create(ctx, &model.Lead{OrganizationID: orgID, Name: "N", Email: "n@example.com"})
		gt.NoError(t, err).Required()

		lead.Status = "qualified"
		_, err = repo.Lead().Update(ctx, lead)
		gt.NoError(t, err).Required()

		got, err := repo.Lead().Get(ctx, orgID, lead.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal("qualified")

		gt.Bool(t, isNotFound(repo.Lead().Delete(ctx, types.NewOrganizationID(), lead.ID))).True()
		gt.NoError(t, repo.Lead().Delete(ctx, orgID, lead.ID))
		_, err = repo.Lead().Get(ctx, orgID, lead.ID)
		gt.Bool(t, isNotFound(err)).True()
	})
}

func TestLeadRepository(t *testing.T) {
	runAll(t, runLeadRepositoryTest)
}

func runColumnPreferenceRepositoryTest(t *testing.T, newRepo repoFactory) {
	t.Run("missing preference is nil", func(t *testing.T) {
		repo := newRepo(t)
		p, err := repo.ColumnPreference().Get(context.Background(), types.NewUserID())
		gt.NoError(t, err)
		gt.Value(t, p).Nil()
	})

	t.Run("save upserts a single row per user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := types.NewUserID()

		first, err := repo.ColumnPreference().Save(ctx, userID, []types.ColumnID{types.ColumnTotalScore, "control1"})
		gt.NoError(t, err).Required()

		second, err := repo.ColumnPreference().Save(ctx, userID, []types.ColumnID{"control7"})
		gt.NoError(t, err).Required()
		gt.Value(t, second.ID).Equal(first.ID)

		got, err := repo.ColumnPreference().Get(ctx, userID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.UserID).Equal(userID)
		gt.Value(t, got.VisibleColumns).Equal([]types.ColumnID{"control7"})

		other, err := repo.ColumnPreference().Get(ctx, types.NewUserID())
		gt.NoError(t, err)
		gt.Value(t, other).Nil()
	})
}

func TestColumnPreferenceRepository(t *testing.T) {
	runAll(t, runColumnPreferenceRepositoryTest)
}
