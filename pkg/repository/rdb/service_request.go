package rdb

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"gorm.io/gorm"
)

type serviceRequestRecord struct {
	ID             string `gorm:"primaryKey;size:36"`
	OrganizationID string `gorm:"size:36;not null;index"`
	RequestedBy    string `gorm:"size:36;not null"`
	Service        string `gorm:"size:32;not null"`
	Details        string
	Status         string `gorm:"size:32;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (serviceRequestRecord) TableName() string {
	return "service_requests"
}

func serviceRequestToRecord(r *model.ServiceRequest) *serviceRequestRecord {
	return &serviceRequestRecord{
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

func serviceRequestToModel(rec *serviceRequestRecord) *model.ServiceRequest {
	return &model.ServiceRequest{
		ID:             types.ServiceRequestID(rec.ID),
		OrganizationID: types.OrganizationID(rec.OrganizationID),
		RequestedBy:    types.UserID(rec.RequestedBy),
		Service:        types.ServiceKind(rec.Service),
		Details:        rec.Details,
		Status:         types.ServiceRequestStatus(rec.Status),
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

type serviceRequestRepository struct {
	db *gorm.DB
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

	if err := r.db.WithContext(ctx).Create(serviceRequestToRecord(&created)).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to create service request", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *serviceRequestRepository) Get(ctx context.Context, orgID types.OrganizationID, id types.ServiceRequestID) (*model.ServiceRequest, error) {
	var rec serviceRequestRecord
	err := r.db.WithContext(ctx).Where("organization_id = ? AND id = ?", orgID.String(), id.String()).First(&rec).Error
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "service request not found", goerr.V("organization_id", orgID), goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get service request", goerr.V("id", id))
	}
	return serviceRequestToModel(&rec), nil
}

func (r *serviceRequestRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.ServiceRequest, error) {
	q := r.db.WithContext(ctx)
	if orgID != "" {
		q = q.Where("organization_id = ?", orgID.String())
	}
	var recs []serviceRequestRecord
	if err := q.Order("created_at DESC").Order("id DESC").Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list service requests", goerr.V("organization_id", orgID))
	}
	list := make([]*model.ServiceRequest, len(recs))
	for i := range recs {
		list[i] = serviceRequestToModel(&recs[i])
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
	if err := r.db.WithContext(ctx).Save(serviceRequestToRecord(&updated)).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to update service request", goerr.V("id", req.ID))
	}
	return &updated, nil
}

func (r *serviceRequestRepository) Delete(ctx context.Context, orgID types.OrganizationID, id types.ServiceRequestID) error {
	res := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID.String(), id.String()).
		Delete(&serviceRequestRecord{})
	if res.Error != nil {
		return goerr.Wrap(res.Error, "failed to delete service request", goerr.V("id", id))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(ErrNotFound, "service request not found", goerr.V("organization_id", orgID), goerr.V("id", id))
	}
	return nil
}
