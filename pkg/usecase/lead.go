package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// LeadUseCase handles leads captured through the public CIS-18 form
type LeadUseCase struct {
	repo     interfaces.Repository
	weights  model.LeadScoreWeights
	notifier *notifier
}

// ScoredLead is a lead with its computed score
type ScoredLead struct {
	*model.Lead
	Score int
}

// NewLeadUseCase creates a new LeadUseCase instance
func NewLeadUseCase(repo interfaces.Repository, weights model.LeadScoreWeights, n *notifier) *LeadUseCase {
	return &LeadUseCase{repo: repo, weights: weights, notifier: n}
}

// CreateLead stores a lead. Status defaults to "new".
func (uc *LeadUseCase) CreateLead(ctx context.Context, l *model.Lead) (*model.Lead, error) {
	rec := *l
	rec.Name = strings.TrimSpace(rec.Name)
	rec.Email = strings.TrimSpace(rec.Email)
	if strings.TrimSpace(rec.Status) == "" {
		rec.Status = model.LeadStatusNew
	}
	if err := rec.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid lead", goerr.V(OrganizationIDKey, l.OrganizationID))
	}

	created, err := uc.repo.Lead().Create(ctx, &rec)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create lead", goerr.V(OrganizationIDKey, l.OrganizationID))
	}

	uc.notifier.send(ctx, &model.Notification{
		Title: "New CIS-18 lead",
		Fields: []model.NotificationField{
			{Name: "Name", Value: created.Name},
			{Name: "Email", Value: created.Email},
			{Name: "Company size", Value: created.CompanySize},
			{Name: "Security maturity", Value: created.SecurityMaturity},
			{Name: "Score", Value: strconv.Itoa(uc.Score(created))},
		},
		Body: created.Message,
		Link: uc.notifier.link("/orgs/" + created.OrganizationID.String() + "/leads"),
	})
	return created, nil
}

// CreatePublicLead stores a lead for the organization identified by slug
func (uc *LeadUseCase) CreatePublicLead(ctx context.Context, slug string, l *model.Lead) (*model.Lead, error) {
	org, err := uc.repo.Organization().GetBySlug(ctx, slug)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get organization", goerr.V("slug", slug))
	}
	if org == nil {
		return nil, goerr.Wrap(ErrNotFound, "organization not found", goerr.V("slug", slug))
	}

	rec := *l
	rec.OrganizationID = org.ID
	rec.Status = model.LeadStatusNew
	return uc.CreateLead(ctx, &rec)
}

// ListLeads returns the leads of an organization, newest first
func (uc *LeadUseCase) ListLeads(ctx context.Context, orgID types.OrganizationID) ([]*model.Lead, error) {
	leads, err := uc.repo.Lead().List(ctx, orgID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list leads", goerr.V(OrganizationIDKey, orgID))
	}
	return leads, nil
}

// ListScoredLeads returns the leads with their scores, newest first
func (uc *LeadUseCase) ListScoredLeads(ctx context.Context, orgID types.OrganizationID) ([]*ScoredLead, error) {
	leads, err := uc.ListLeads(ctx, orgID)
	if err != nil {
		return nil, err
	}
	scored := make([]*ScoredLead, len(leads))
	for i, l := range leads {
		scored[i] = &ScoredLead{Lead: l, Score: uc.Score(l)}
	}
	return scored, nil
}

// Score returns the weighted lead score in [0,100]
func (uc *LeadUseCase) Score(l *model.Lead) int {
	return uc.weights.Score(l)
}

// UpdateLeadStatus sets the free text status of a lead
func (uc *LeadUseCase) UpdateLeadStatus(ctx context.Context, orgID types.OrganizationID, id types.LeadID, status string) (*model.Lead, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, goerr.Wrap(model.ErrMissingRequired, "status is required", goerr.V(model.FieldKey, "status"))
	}

	l, err := uc.repo.Lead().Get(ctx, orgID, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get lead", goerr.V(OrganizationIDKey, orgID), goerr.V(LeadIDKey, id))
	}
	l.Status = status

	updated, err := uc.repo.Lead().Update(ctx, l)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update lead", goerr.V(OrganizationIDKey, orgID), goerr.V(LeadIDKey, id))
	}
	return updated, nil
}

// DeleteLead removes a lead of the organization
func (uc *LeadUseCase) DeleteLead(ctx context.Context, orgID types.OrganizationID, id types.LeadID) error {
	if err := uc.repo.Lead().Delete(ctx, orgID, id); err != nil {
		return goerr.Wrap(err, "failed to delete lead", goerr.V(OrganizationIDKey, orgID), goerr.V(LeadIDKey, id))
	}
	return nil
}
