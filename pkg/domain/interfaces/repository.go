package interfaces

import (
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned by repositories when a record does not exist or is
// not owned by the requested organization
var ErrNotFound = goerr.New("not found")

// Repository defines the interface for data persistence
type Repository interface {
	Assessment() AssessmentRepository
	Lead() LeadRepository
	ColumnPreference() ColumnPreferenceRepository
	Organization() OrganizationRepository
	User() UserRepository
	ContactMessage() ContactMessageRepository
	ServiceRequest() ServiceRequestRepository
	EmailConfig() EmailConfigRepository

	Close() error
}
