package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/repository/memory"
	"github.com/secmon-lab/cisboard/pkg/usecase"
)

func TestLeadUseCase_CreatePublicLead(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	notifier := newMockNotifier()
	uc := usecase.New(repo, usecase.WithNotifier(notifier), usecase.WithBaseURL("https://cisboard.example.com/"))
	org := newOrg(t, repo, "acme")

	t.Run("stores lead with status new and notifies", func(t *testing.T) {
		lead, err := uc.Lead.CreatePublicLead(ctx, "acme", &model.Lead{
			Name:             " Alice ",
			Email:            "alice@example.com",
			Phone:            "+81-3-0000-0000",
			CompanySize:      "51-200",
			SecurityMaturity: "basic",
			Status:           "qualified",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, lead.OrganizationID).Equal(org.ID)
		gt.Value(t, lead.Status).Equal(model.LeadStatusNew)
		gt.Value(t, lead.Name).Equal("Alice")

		n := notifier.wait(t)
		gt.Value(t, n.Title).Equal("New CIS-18 lead")
		gt.Value(t, n.Link).Equal("https://cisboard.example.com/orgs/" + org.ID.String() + "/leads")
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, err := uc.Lead.CreatePublicLead(ctx, "nope", &model.Lead{Name: "Bob", Email: "bob@example.com"})
		gt.Bool(t, errors.Is(err, usecase.ErrNotFound)).True()
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := uc.Lead.CreatePublicLead(ctx, "acme", &model.Lead{Name: "Bob"})
		gt.Bool(t, usecase.IsInvalidInput(err)).True()
	})
}

func TestLeadUseCase_ListAndScore(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo)
	org := newOrg(t, repo, "acme")

	_, err := uc.Lead.CreateLead(ctx, &model.Lead{OrganizationID: org.ID, Name: "Small", Email: "s@example.com", CompanySize: "1-10", SecurityMaturity: "advanced"})
	gt.NoError(t, err).Required()
	_, err = uc.Lead.CreateLead(ctx, &model.Lead{OrganizationID: org.ID, Name: "Large", Email: "l@example.com", CompanySize: "1000+", SecurityMaturity: "none", Phone: "1", Message: "help"})
	gt.NoError(t, err).Required()

	scored, err := uc.Lead.ListScoredLeads(ctx, org.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, scored).Length(2)
	gt.Value(t, scored[0].Name).Equal("Large")
	gt.Value(t, scored[0].Score).Equal(100)
	gt.Value(t, scored[1].Score).Equal(10)

	other, err := uc.Lead.ListLeads(ctx, types.NewOrganizationID())
	gt.NoError(t, err).Required()
	gt.Array(t, other).Length(0)
}

func TestLeadUseCase_CustomWeights(t *testing.T) {
	w := model.DefaultLeadScoreWeights()
	w.Phone = 40
	uc := usecase.New(memory.New(), usecase.WithLeadScoreWeights(w))
	gt.Value(t, uc.Lead.Score(&model.Lead{Phone: "1"})).Equal(40)
}

func TestLeadUseCase_StatusAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo)
	org := newOrg(t, repo, "acme")

	lead, err := uc.Lead.CreateLead(ctx, &model.Lead{OrganizationID: org.ID, Name: "A", Email: "a@example.com"})
	gt.NoError(t, err).Required()

	updated, err := uc.Lead.UpdateLeadStatus(ctx, org.ID, lead.ID, "contacted")
	gt.NoError(t, err).Required()
	gt.Value(t, updated.Status).Equal("contacted")

	_, err = uc.Lead.UpdateLeadStatus(ctx, org.ID, lead.ID, " ")
	gt.Bool(t, usecase.IsInvalidInput(err)).True()

	err = uc.Lead.DeleteLead(ctx, types.NewOrganizationID(), lead.ID)
	gt.Bool(t, errors.Is(err, usecase.ErrNotFound)).True()

	gt.NoError(t, uc.Lead.DeleteLead(ctx, org.ID, lead.ID)).Required()
	_, err = uc.Lead.UpdateLeadStatus(ctx, org.ID, lead.ID, "contacted")
	gt.Bool(t, errors.Is(err, usecase.ErrNotFound)).True()
}
