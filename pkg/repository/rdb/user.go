package rdb

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"gorm.io/gorm"
)

type userRecord struct {
	ID             string  `gorm:"primaryKey;size:36"`
	Email          string  `gorm:"not null;uniqueIndex"`
	Name           string  `gorm:"not null"`
	Role           string  `gorm:"size:32;not null"`
	OrganizationID *string `gorm:"size:36;index"`
	PasswordHash   string  `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userRecord) TableName() string {
	return "users"
}

func userToRecord(u *model.User) *userRecord {
	return &userRecord{
		ID:             u.ID.String(),
		Email:          model.NormalizeEmail(u.Email),
		Name:           u.Name,
		Role:           string(u.Role),
		OrganizationID: nullString(u.OrganizationID.String()),
		PasswordHash:   u.PasswordHash,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func userToModel(rec *userRecord) *model.User {
	return &model.User{
		ID:             types.UserID(rec.ID),
		Email:          rec.Email,
		Name:           rec.Name,
		Role:           types.UserRole(rec.Role),
		OrganizationID: types.OrganizationID(fromNullString(rec.OrganizationID)),
		PasswordHash:   rec.PasswordHash,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	created := *u
	if created.ID == "" {
		created.ID = types.NewUserID()
	}
	created.Email = model.NormalizeEmail(created.Email)
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(userToRecord(&created)).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to create user", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&rec).Error; err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}
	return userToModel(&rec), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var recs []userRecord
	err := r.db.WithContext(ctx).Where("email = ?", model.NormalizeEmail(email)).Limit(1).Find(&recs).Error
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user by email")
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return userToModel(&recs[0]), nil
}

func (r *userRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.User, error) {
	q := r.db.WithContext(ctx)
	if orgID != "" {
		q = q.Where("organization_id = ?", orgID.String())
	}
	var recs []userRecord
	if err := q.Order("email ASC").Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list users", goerr.V("organization_id", orgID))
	}
	list := make([]*model.User, len(recs))
	for i := range recs {
		list[i] = userToModel(&recs[i])
	}
	return list, nil
}

func (r *userRepository) Update(ctx context.Context, u *model.User) (*model.User, error) {
	existing, err := r.Get(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	updated := *u
	updated.Email = model.NormalizeEmail(updated.Email)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Save(userToRecord(&updated)).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to update user", goerr.V("id", u.ID))
	}
	return &updated, nil
}

func (r *userRepository) Delete(ctx context.Context, id types.UserID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&userRecord{})
	if res.Error != nil {
		return goerr.Wrap(res.Error, "failed to delete user", goerr.V("id", id))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}
	return nil
}
