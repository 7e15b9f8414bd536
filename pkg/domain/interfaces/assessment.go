package interfaces

import (
	"context"

	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// AssessmentRepository defines the interface for Assessment data access.
// Every read and write is scoped by organization.
type AssessmentRepository interface {
	// Create stores a new assessment. ID is generated when empty; CreatedAt and
	// UpdatedAt are always set by the repository.
	Create(ctx context.Context, a *model.Assessment) (*model.Assessment, error)

	// Get retrieves an assessment of the organization
	Get(ctx context.Context, orgID types.OrganizationID, id types.AssessmentID) (*model.Assessment, error)

	// GetLatest returns the assessment with the latest AssessmentDate (then CreatedAt).
	// Returns nil, nil if the organization has no assessment.
	GetLatest(ctx context.Context, orgID types.OrganizationID) (*model.Assessment, error)

	// List returns all assessments of the organization, AssessmentDate descending
	List(ctx context.Context, orgID types.OrganizationID) ([]*model.Assessment, error)

	// Update replaces an existing assessment and re-stamps UpdatedAt
	Update(ctx context.Context, a *model.Assessment) (*model.Assessment, error)

	// Delete removes an assessment. ErrNotFound is returned when it does not exist
	// or belongs to another organization.
	Delete(ctx context.Context, orgID types.OrganizationID, id types.AssessmentID) error
}

// LeadRepository defines the interface for Lead data access
type LeadRepository interface {
	Create(ctx context.Context, l *model.Lead) (*model.Lead, error)
	Get(ctx context.Context, orgID types.OrganizationID, id types.LeadID) (*model.Lead, error)

	// List returns leads of the organization, newest first
	List(ctx context.Context, orgID types.OrganizationID) ([]*model.Lead, error)

	Update(ctx context.Context, l *model.Lead) (*model.Lead, error)
	Delete(ctx context.Context, orgID types.OrganizationID, id types.LeadID) error
}

// ColumnPreferenceRepository defines the interface for per-user table column visibility
type ColumnPreferenceRepository interface {
	// Get returns the preference of the user. Returns nil, nil if none is saved.
	Get(ctx context.Context, userID types.UserID) (*model.ColumnPreference, error)

	// Save updates the preference of the user or inserts it when absent
	Save(ctx context.Context, userID types.UserID, columns []types.ColumnID) (*model.ColumnPreference, error)
}
