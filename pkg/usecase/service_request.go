package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

const serviceRequestIDKey = "service_request_id"

// ServiceRequestUseCase handles consulting services ordered by organization members
type ServiceRequestUseCase struct {
	repo     interfaces.Repository
	notifier *notifier
}

// NewServiceRequestUseCase creates a new ServiceRequestUseCase instance
func NewServiceRequestUseCase(repo interfaces.Repository, n *notifier) *ServiceRequestUseCase {
	return &ServiceRequestUseCase{repo: repo, notifier: n}
}

// CreateServiceRequest stores an open request from requester and notifies operators
func (uc *ServiceRequestUseCase) CreateServiceRequest(ctx context.Context, requester *model.User, orgID types.OrganizationID, service types.ServiceKind, details string) (*model.ServiceRequest, error) {
	if err := RequireOrgMember(requester, orgID); err != nil {
		return nil, err
	}

	req := &model.ServiceRequest{
		OrganizationID: orgID,
		RequestedBy:    requester.ID,
		Service:        service,
		Details:        strings.TrimSpace(details),
		Status:         types.ServiceRequestStatusOpen,
	}
	if err := req.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid service request", goerr.V(OrganizationIDKey, orgID))
	}

	created, err := uc.repo.ServiceRequest().Create(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create service request", goerr.V(OrganizationIDKey, orgID))
	}

	orgName := orgID.String()
	if org, err := uc.repo.Organization().Get(ctx, orgID); err == nil {
		orgName = org.Name
	}
	uc.notifier.send(ctx, &model.Notification{
		Title: "New service request",
		Fields: []model.NotificationField{
			{Name: "Organization", Value: orgName},
			{Name: "Service", Value: created.Service.String()},
			{Name: "Requested by", Value: requester.Email},
		},
		Body: created.Details,
		Link: uc.notifier.link("/admin/service-requests"),
	})
	return created, nil
}

// ListServiceRequests returns the requests of an organization; an empty orgID lists all
func (uc *ServiceRequestUseCase) ListServiceRequests(ctx context.Context, orgID types.OrganizationID) ([]*model.ServiceRequest, error) {
	reqs, err := uc.repo.ServiceRequest().List(ctx, orgID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list service requests", goerr.V(OrganizationIDKey, orgID))
	}
	return reqs, nil
}

// UpdateServiceRequestStatus moves a request to status
func (uc *ServiceRequestUseCase) UpdateServiceRequestStatus(ctx context.Context, orgID types.OrganizationID, id types.ServiceRequestID, status types.ServiceRequestStatus) (*model.ServiceRequest, error) {
	if !status.IsValid() {
		return nil, goerr.Wrap(model.ErrInvalidFormat, "invalid status",
			goerr.V(model.FieldKey, "status"), goerr.V(model.ValueKey, status))
	}

	req, err := uc.repo.ServiceRequest().Get(ctx, orgID, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get service request",
			goerr.V(OrganizationIDKey, orgID), goerr.V(serviceRequestIDKey, id))
	}
	req.Status = status

	updated, err := uc.repo.ServiceRequest().Update(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update service request",
			goerr.V(OrganizationIDKey, orgID), goerr.V(serviceRequestIDKey, id))
	}
	return updated, nil
}

// DeleteServiceRequest removes a request of the organization
func (uc *ServiceRequestUseCase) DeleteServiceRequest(ctx context.Context, orgID types.OrganizationID, id types.ServiceRequestID) error {
	if err := uc.repo.ServiceRequest().Delete(ctx, orgID, id); err != nil {
		return goerr.Wrap(err, "failed to delete service request",
			goerr.V(OrganizationIDKey, orgID), goerr.V(serviceRequestIDKey, id))
	}
	return nil
}
