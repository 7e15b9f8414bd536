package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

type serviceRequestRepository struct {
	mu       sync.RWMutex
	requests map[types.ServiceRequestID]*model.ServiceRequest
}

func newServiceRequestRepository() *serviceRequestRepository {
	return &serviceRequestRepository{
		requests: make(map[types.ServiceRequestID]*model.ServiceRequest),
	}
}

func copyServiceRequest(r *model.ServiceRequest) *model.ServiceRequest {
	c := *r
	return &c
}

func (r *serviceRequestRepository) Create(ctx context.Context, req *model.ServiceRequest) (*model.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyServiceRequest(req)
	if created.ID == "" {
		created.ID = types.NewServiceRequestID()
	}
	if created.Status == "" {
		created.Status = types.ServiceRequestStatusOpen
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.requests[created.ID] = created
	return copyServiceRequest(created), nil
}

func (r *serviceRequestRepository) Get(ctx context.Context, orgID types.OrganizationID, id types.ServiceRequestID) (*model.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, exists := r.requests[id]
	if !exists || req.OrganizationID != orgID {
		return nil, goerr.Wrap(ErrNotFound, "service request not found", goerr.V("organization_id", orgID), goerr.V("id", id))
	}
	return copyServiceRequest(req), nil
}

func (r *serviceRequestRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*model.ServiceRequest, 0)
	for _, req := range r.requests {
		if orgID == "" || req.OrganizationID == orgID {
			list = append(list, copyServiceRequest(req))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (r *serviceRequestRepository) Update(ctx context.Context, req *model.ServiceRequest) (*model.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.requests[req.ID]
	if !exists || existing.OrganizationID != req.OrganizationID {
		return nil, goerr.Wrap(ErrNotFound, "service request not found", goerr.V("organization_id", req.OrganizationID), goerr.V("id", req.ID))
	}
	updated := copyServiceRequest(req)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.requests[updated.ID] = updated
	return copyServiceRequest(updated), nil
}

func (r *serviceRequestRepository) Delete(ctx context.Context, orgID types.OrganizationID, id types.ServiceRequestID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, exists := r.requests[id]
	if !exists || req.OrganizationID != orgID {
		return goerr.Wrap(ErrNotFound, "service request not found", goerr.V("organization_id", orgID), goerr.V("id", id))
	}
	delete(r.requests, id)
	return nil
}
