package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// ErrInvalidID is returned when an identifier is empty or not a UUID
var ErrInvalidID = goerr.New("invalid identifier")

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func validateID(kind, id string) error {
	if id == "" {
		return goerr.Wrap(ErrInvalidID, "identifier cannot be empty", goerr.V("kind", kind))
	}
	if _, err := uuid.Parse(id); err != nil {
		return goerr.Wrap(ErrInvalidID, "identifier must be a UUID", goerr.V("kind", kind), goerr.V("id", id))
	}
	return nil
}

// OrganizationID identifies a tenant organization
type OrganizationID string

func NewOrganizationID() OrganizationID   { return OrganizationID(newID()) }
func (id OrganizationID) String() string  { return string(id) }
func (id OrganizationID) Validate() error { return validateID("organization", string(id)) }

// UserID identifies a dashboard user
type UserID string

func NewUserID() UserID           { return UserID(newID()) }
func (id UserID) String() string  { return string(id) }
func (id UserID) Validate() error { return validateID("user", string(id)) }

// AssessmentID identifies a CIS-18 assessment
type AssessmentID string

func NewAssessmentID() AssessmentID     { return AssessmentID(newID()) }
func (id AssessmentID) String() string  { return string(id) }
func (id AssessmentID) Validate() error { return validateID("assessment", string(id)) }

// LeadID identifies a lead captured through the CIS-18 lead form
type LeadID string

func NewLeadID() LeadID           { return LeadID(newID()) }
func (id LeadID) String() string  { return string(id) }
func (id LeadID) Validate() error { return validateID("lead", string(id)) }

// ColumnPreferenceID identifies a stored column-visibility preference row
type ColumnPreferenceID string

func NewColumnPreferenceID() ColumnPreferenceID { return ColumnPreferenceID(newID()) }
func (id ColumnPreferenceID) String() string    { return string(id) }

// ContactMessageID identifies a message sent through the public contact form
type ContactMessageID string

func NewContactMessageID() ContactMessageID { return ContactMessageID(newID()) }
func (id ContactMessageID) String() string  { return string(id) }
func (id ContactMessageID) Validate() error { return validateID("contact_message", string(id)) }

// ServiceRequestID identifies a consulting service request
type ServiceRequestID string

func NewServiceRequestID() ServiceRequestID { return ServiceRequestID(newID()) }
func (id ServiceRequestID) String() string  { return string(id) }
func (id ServiceRequestID) Validate() error { return validateID("service_request", string(id)) }
