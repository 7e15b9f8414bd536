package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

// OrganizationUseCase manages tenants. Callers must be platform admins.
type OrganizationUseCase struct {
	repo interfaces.Repository
}

// NewOrganizationUseCase creates a new OrganizationUseCase instance
func NewOrganizationUseCase(repo interfaces.Repository) *OrganizationUseCase {
	return &OrganizationUseCase{repo: repo}
}

// CreateOrganization creates an organization with a unique slug
func (uc *OrganizationUseCase) CreateOrganization(ctx context.Context, name, slug string) (*model.Organization, error) {
	org := &model.Organization{
		Name: strings.TrimSpace(name),
		Slug: strings.ToLower(strings.TrimSpace(slug)),
	}
	if err := org.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid organization")
	}
	if err := uc.ensureSlugFree(ctx, org.Slug, ""); err != nil {
		return nil, err
	}

	created, err := uc.repo.Organization().Create(ctx, org)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create organization", goerr.V("slug", org.Slug))
	}
	logging.From(ctx).Info("organization created", "organization_id", created.ID, "slug", created.Slug)
	return created, nil
}

// GetOrganization returns an organization by ID
func (uc *OrganizationUseCase) GetOrganization(ctx context.Context, id types.OrganizationID) (*model.Organization, error) {
	org, err := uc.repo.Organization().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get organization", goerr.V(OrganizationIDKey, id))
	}
	return org, nil
}

// GetOrganizationBySlug returns the organization with the slug, or ErrNotFound
func (uc *OrganizationUseCase) GetOrganizationBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	org, err := uc.repo.Organization().GetBySlug(ctx, slug)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get organization", goerr.V("slug", slug))
	}
	if org == nil {
		return nil, goerr.Wrap(ErrNotFound, "organization not found", goerr.V("slug", slug))
	}
	return org, nil
}

// ListOrganizations returns all organizations ordered by name
func (uc *OrganizationUseCase) ListOrganizations(ctx context.Context) ([]*model.Organization, error) {
	orgs, err := uc.repo.Organization().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list organizations")
	}
	return orgs, nil
}

// UpdateOrganization renames an organization and optionally changes its slug
func (uc *OrganizationUseCase) UpdateOrganization(ctx context.Context, id types.OrganizationID, name, slug string) (*model.Organization, error) {
	org, err := uc.GetOrganization(ctx, id)
	if err != nil {
		return nil, err
	}

	org.Name = strings.TrimSpace(name)
	org.Slug = strings.ToLower(strings.TrimSpace(slug))
	if err := org.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid organization", goerr.V(OrganizationIDKey, id))
	}
	if err := uc.ensureSlugFree(ctx, org.Slug, id); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Organization().Update(ctx, org)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update organization", goerr.V(OrganizationIDKey, id))
	}
	return updated, nil
}

// DeleteOrganization removes an organization. Its assessments and leads are kept.
func (uc *OrganizationUseCase) DeleteOrganization(ctx context.Context, id types.OrganizationID) error {
	if err := uc.repo.Organization().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete organization", goerr.V(OrganizationIDKey, id))
	}
	logging.From(ctx).Info("organization deleted", "organization_id", id)
	return nil
}

func (uc *OrganizationUseCase) ensureSlugFree(ctx context.Context, slug string, self types.OrganizationID) error {
	existing, err := uc.repo.Organization().GetBySlug(ctx, slug)
	if err != nil {
		return goerr.Wrap(err, "failed to look up slug", goerr.V("slug", slug))
	}
	if existing != nil && existing.ID != self {
		return goerr.Wrap(ErrSlugTaken, "slug is in use", goerr.V("slug", slug))
	}
	return nil
}
