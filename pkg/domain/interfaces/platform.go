package interfaces

import (
	"context"

	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// OrganizationRepository defines the interface for Organization data access
type OrganizationRepository interface {
	Create(ctx context.Context, o *model.Organization) (*model.Organization, error)
	Get(ctx context.Context, id types.OrganizationID) (*model.Organization, error)

	// GetBySlug returns nil, nil if no organization has the slug
	GetBySlug(ctx context.Context, slug string) (*model.Organization, error)

	// List returns all organizations ordered by name
	List(ctx context.Context) ([]*model.Organization, error)

	Update(ctx context.Context, o *model.Organization) (*model.Organization, error)
	Delete(ctx context.Context, id types.OrganizationID) error
}

// UserRepository defines the interface for User data access
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, id types.UserID) (*model.User, error)

	// GetByEmail looks a user up by normalized email. Returns nil, nil if none.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// List returns users of the organization ordered by email. An empty orgID lists every user.
	List(ctx context.Context, orgID types.OrganizationID) ([]*model.User, error)

	Update(ctx context.Context, u *model.User) (*model.User, error)
	Delete(ctx context.Context, id types.UserID) error
}

// ContactMessageRepository defines the interface for public contact messages
type ContactMessageRepository interface {
	Create(ctx context.Context, m *model.ContactMessage) (*model.ContactMessage, error)
	Get(ctx context.Context, id types.ContactMessageID) (*model.ContactMessage, error)

	// List returns all messages, newest first
	List(ctx context.Context) ([]*model.ContactMessage, error)

	Update(ctx context.Context, m *model.ContactMessage) (*model.ContactMessage, error)
	Delete(ctx context.Context, id types.ContactMessageID) error
}

// ServiceRequestRepository defines the interface for ServiceRequest data access
type ServiceRequestRepository interface {
	Create(ctx context.Context, r *model.ServiceRequest) (*model.ServiceRequest, error)
	Get(ctx context.Context, orgID types.OrganizationID, id types.ServiceRequestID) (*model.ServiceRequest, error)

	// List returns requests of the organization, newest first. An empty orgID lists every request.
	List(ctx context.Context, orgID types.OrganizationID) ([]*model.ServiceRequest, error)

	Update(ctx context.Context, r *model.ServiceRequest) (*model.ServiceRequest, error)
	Delete(ctx context.Context, orgID types.OrganizationID, id types.ServiceRequestID) error
}

// EmailConfigRepository stores one email provider configuration per organization
type EmailConfigRepository interface {
	// Get returns nil, nil if the organization has no configuration
	Get(ctx context.Context, orgID types.OrganizationID) (*model.EmailProviderConfig, error)

	// Put creates or replaces the configuration of cfg.OrganizationID
	Put(ctx context.Context, cfg *model.EmailProviderConfig) (*model.EmailProviderConfig, error)

	Delete(ctx context.Context, orgID types.OrganizationID) error
}
