package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// ServiceRequest is a consulting service ordered by an organization member
type ServiceRequest struct {
	ID             types.ServiceRequestID
	OrganizationID types.OrganizationID
	RequestedBy    types.UserID
	Service        types.ServiceKind
	Details        string
	Status         types.ServiceRequestStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks organization, requester and the closed enums
func (r *ServiceRequest) Validate() error {
	if err := r.OrganizationID.Validate(); err != nil {
		return goerr.Wrap(err, "service request requires an organization")
	}
	if err := r.RequestedBy.Validate(); err != nil {
		return goerr.Wrap(err, "service request requires a requester")
	}
	if !r.Service.IsValid() {
		return goerr.Wrap(ErrInvalidFormat, "invalid service", goerr.V(FieldKey, "service"), goerr.V(ValueKey, r.Service))
	}
	if !r.Status.IsValid() {
		return goerr.Wrap(ErrInvalidFormat, "invalid status", goerr.V(FieldKey, "status"), goerr.V(ValueKey, r.Status))
	}
	return nil
}
