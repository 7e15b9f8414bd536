package rdb

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"gorm.io/gorm"
)

type organizationRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"not null"`
	Slug      string `gorm:"size:63;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (organizationRecord) TableName() string {
	return "organizations"
}

func organizationToRecord(o *model.Organization) *organizationRecord {
	return &organizationRecord{
		ID:        o.ID.String(),
		Name:      o.Name,
		Slug:      o.Slug,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func organizationToModel(rec *organizationRecord) *model.Organization {
	return &model.Organization{
		ID:        types.OrganizationID(rec.ID),
		Name:      rec.Name,
		Slug:      rec.Slug,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

type organizationRepository struct {
	db *gorm.DB
}

func (r *organizationRepository) Create(ctx context.Context, o *model.Organization) (*model.Organization, error) {
	created := *o
	if created.ID == "" {
		created.ID = types.NewOrganizationID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(organizationToRecord(&created)).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to create organization", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *organizationRepository) Get(ctx context.Context, id types.OrganizationID) (*model.Organization, error) {
	var rec organizationRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&rec).Error; err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "organization not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get organization", goerr.V("id", id))
	}
	return organizationToModel(&rec), nil
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	var recs []organizationRecord
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).Limit(1).Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to get organization by slug", goerr.V("slug", slug))
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return organizationToModel(&recs[0]), nil
}

func (r *organizationRepository) List(ctx context.Context) ([]*model.Organization, error) {
	var recs []organizationRecord
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list organizations")
	}
	list := make([]*model.Organization, len(recs))
	for i := range recs {
		list[i] = organizationToModel(&recs[i])
	}
	return list, nil
}

func (r *organizationRepository) Update(ctx context.Context, o *model.Organization) (*model.Organization, error) {
	existing, err := r.Get(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	updated := *o
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Save(organizationToRecord(&updated)).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to update organization", goerr.V("id", o.ID))
	}
	return &updated, nil
}

func (r *organizationRepository) Delete(ctx context.Context, id types.OrganizationID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&organizationRecord{})
	if res.Error != nil {
		return goerr.Wrap(res.Error, "failed to delete organization", goerr.V("id", id))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(ErrNotFound, "organization not found", goerr.V("id", id))
	}
	return nil
}
