package memory

import (
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
)

// ErrNotFound is returned when a record is missing
var ErrNotFound = interfaces.ErrNotFound

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory keeps every record in process memory. It backs tests and --repository-backend=memory.
type Memory struct {
	assessment     *assessmentRepository
	lead           *leadRepository
	preference     *columnPreferenceRepository
	organization   *organizationRepository
	user           *userRepository
	contactMessage *contactMessageRepository
	serviceRequest *serviceRequestRepository
	emailConfig    *emailConfigRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		assessment:     newAssessmentRepository(),
		lead:           newLeadRepository(),
		preference:     newColumnPreferenceRepository(),
		organization:   newOrganizationRepository(),
		user:           newUserRepository(),
		contactMessage: newContactMessageRepository(),
		serviceRequest: newServiceRequestRepository(),
		emailConfig:    newEmailConfigRepository(),
	}
}

func (m *Memory) Assessment() interfaces.AssessmentRepository {
	return m.assessment
}

func (m *Memory) Lead() interfaces.LeadRepository {
	return m.lead
}

func (m *Memory) ColumnPreference() interfaces.ColumnPreferenceRepository {
	return m.preference
}

func (m *Memory) Organization() interfaces.OrganizationRepository {
	return m.organization
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) ContactMessage() interfaces.ContactMessageRepository {
	return m.contactMessage
}

func (m *Memory) ServiceRequest() interfaces.ServiceRequestRepository {
	return m.serviceRequest
}

func (m *Memory) EmailConfig() interfaces.EmailConfigRepository {
	return m.emailConfig
}

func (m *Memory) Close() error {
	return nil
}
