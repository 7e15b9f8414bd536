package rdb

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"gorm.io/gorm"
)

type leadRecord struct {
	ID               string  `gorm:"primaryKey;size:36"`
	OrganizationID   string  `gorm:"size:36;not null;index"`
	Name             string  `gorm:"not null"`
	Email            string  `gorm:"not null"`
	Phone            *string `gorm:"size:64"`
	Role             *string
	CompanySize      *string `gorm:"size:32"`
	SecurityMaturity *string `gorm:"size:32"`
	Message          *string
	Status           string `gorm:"size:32;not null;default:new"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (leadRecord) TableName() string {
	return "leads"
}

func leadToRecord(l *model.Lead) *leadRecord {
	return &leadRecord{
		ID:               l.ID.String(),
		OrganizationID:   l.OrganizationID.String(),
		Name:             l.Name,
		Email:            l.Email,
		Phone:            nullString(l.Phone),
		Role:             nullString(l.Role),
		CompanySize:      nullString(l.CompanySize),
		SecurityMaturity: nullString(l.SecurityMaturity),
		Message:          nullString(l.Message),
		Status:           l.Status,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

func leadToModel(rec *leadRecord) *model.Lead {
	return &model.Lead{
		ID:               types.LeadID(rec.ID),
		OrganizationID:   types.OrganizationID(rec.OrganizationID),
		Name:             rec.Name,
		Email:            rec.Email,
		Phone:            fromNullString(rec.Phone),
		Role:             fromNullString(rec.Role),
		CompanySize:      fromNullString(rec.CompanySize),
		SecurityMaturity: fromNullString(rec.SecurityMaturity),
		Message:          fromNullString(rec.Message),
		Status:           rec.Status,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

type leadRepository struct {
	db *gorm.DB
}

func (r *leadRepository) Create(ctx context.Context, l *model.Lead) (*model.Lead, error) {
	created := *l
	if created.ID == "" {
		created.ID = types.NewLeadID()
	}
	if created.Status == "" {
		created.Status = model.LeadStatusNew
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(leadToRecord(&created)).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to create lead", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *leadRepository) Get(ctx context.Context, orgID types.OrganizationID, id types.LeadID) (*model.Lead, error) {
	var rec leadRecord
	err := r.db.WithContext(ctx).Where("organization_id = ? AND id = ?", orgID.String(), id.String()).First(&rec).Error
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "lead not found", goerr.V("organization_id", orgID), goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get lead", goerr.V("id", id))
	}
	return leadToModel(&rec), nil
}

func (r *leadRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.Lead, error) {
	var recs []leadRecord
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID.String()).
		Order("created_at DESC").
		Order("id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list leads", goerr.V("organization_id", orgID))
	}
	list := make([]*model.Lead, len(recs))
	for i := range recs {
		list[i] = leadToModel(&recs[i])
	}
	return list, nil
}

func (r *leadRepository) Update(ctx context.Context, l *model.Lead) (*model.Lead, error) {
	existing, err := r.Get(ctx, l.OrganizationID, l.ID)
	if err != nil {
		return nil, err
	}
	updated := *l
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Save(leadToRecord(&updated)).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to update lead", goerr.V("id", l.ID))
	}
	return &updated, nil
}

func (r *leadRepository) Delete(ctx context.Context, orgID types.OrganizationID, id types.LeadID) error {
	res := r.db.WithContext(ctx).Where("organization_id = ? AND id = ?", orgID.String(), id.String()).Delete(&leadRecord{})
	if res.Error != nil {
		return goerr.Wrap(res.Error, "failed to delete lead", goerr.V("id", id))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(ErrNotFound, "lead not found", goerr.V("organization_id", orgID), goerr.V("id", id))
	}
	return nil
}
