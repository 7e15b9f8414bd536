package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

type serviceRequestDocument struct {
	ID             string    `firestore:"id"`
	OrganizationID string    `firestore:"organization_id"`
	RequestedBy    string    `firestore:"requested_by"`
	Service        string    `firestore:"service"`
	Details        string    `firestore:"details"`
	Status         string    `firestore:"status"`
	CreatedAt      time.Time `firestore:"created_at"`
	UpdatedAt      time.Time `firestore:"updated_at"`
}

func serviceRequestToDocument(r *model.ServiceRequest) *serviceRequestDocument {
	return &serviceRequestDocument{
		ID:             r.ID.String(),
		OrganizationID: r.OrganizationID.String(),
		RequestedBy:    r.RequestedBy.String(),
		Service:        r.Service.String(),
		Details:        r.Details,
		Status:         r.Status.String(),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func serviceRequestToModel(d *serviceRequestDocument) *model.ServiceRequest {
	return &model.ServiceRequest{
		ID:             types.ServiceRequestID(d.ID),
		OrganizationID: types.OrganizationID(d.OrganizationID),
		RequestedBy:    types.UserID(d.RequestedBy),
		Service:        types.ServiceKind(d.Service),
		Details:        d.Details,
		Status:         types.ServiceRequestStatus(d.Status),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type serviceRequestRepository struct {
	client     *firestore.Client
	collection string
}

func (r *serviceRequestRepository) doc(id types.ServiceRequestID) *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(id.String())
}

func (r *serviceRequestRepository) Create(ctx context.Context, req *model.ServiceRequest) (*model.ServiceRequest, error) {
	created := *req
	if created.ID == "" {
		created.ID = types.NewServiceRequestID()
	}
	if created.Status == "" {
		created.Status = types.ServiceRequestStatusOpen
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.doc(created.ID).Create(ctx, serviceRequestToDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create service request", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *serviceRequestRepository) Get(ctx context.Context, orgID types.OrganizationID, id types.ServiceRequestID) (*model.ServiceRequest, error) {
	doc, found, err := getDoc[serviceRequestDocument](ctx, r.doc(id))
	if err != nil {
		return nil, err
	}
	if !found || doc.OrganizationID != orgID.String() {
		return nil, goerr.Wrap(ErrNotFound, "service request not found", goerr.V("organization_id", orgID), goerr.V("id", id))
	}
	return serviceRequestToModel(doc), nil
}

func (r *serviceRequestRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.ServiceRequest, error) {
	q := r.client.Collection(r.collection).Query
	if orgID != "" {
		q = q.Where("organization_id", "==", orgID.String())
	}
	list, err := collect(q.OrderBy("created_at", firestore.Desc).Documents(ctx), serviceRequestToModel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list service requests", goerr.V("organization_id", orgID))
	}
	return list, nil
}

func (r *serviceRequestRepository) Update(ctx context.Context, req *model.ServiceRequest) (*model.ServiceRequest, error) {
	existing, err := r.Get(ctx, req.OrganizationID, req.ID)
	if err != nil {
		return nil, err
	}
	updated := *req
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if _, err := r.doc(req.ID).Set(ctx, serviceRequestToDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update service request", goerr.V("id", req.ID))
	}
	return &updated, nil
}

func (r *serviceRequestRepository) Delete(ctx context.Context, orgID types.OrganizationID, id types.ServiceRequestID) error {
	if _, err := r.Get(ctx, orgID, id); err != nil {
		return err
	}
	if _, err := r.doc(id).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete service request", goerr.V("id", id))
	}
	return nil
}
