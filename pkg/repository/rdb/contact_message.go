package rdb

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"gorm.io/gorm"
)

type contactMessageRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null"`
	Subject   string
	Body      string `gorm:"not null"`
	Read      bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (contactMessageRecord) TableName() string {
	return "contact_messages"
}

func contactMessageToRecord(m *model.ContactMessage) *contactMessageRecord {
	return &contactMessageRecord{
		ID:        m.ID.String(),
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Body:      m.Body,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func contactMessageToModel(rec *contactMessageRecord) *model.ContactMessage {
	return &model.ContactMessage{
		ID:        types.ContactMessageID(rec.ID),
		Name:      rec.Name,
		Email:     rec.Email,
		Subject:   rec.Subject,
		Body:      rec.Body,
		Read:      rec.Read,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

type contactMessageRepository struct {
	db *gorm.DB
}

func (r *contactMessageRepository) Create(ctx context.Context, m *model.ContactMessage) (*model.ContactMessage, error) {
	created := *m
	if created.ID == "" {
		created.ID = types.NewContactMessageID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(contactMessageToRecord(&created)).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to create contact message", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *contactMessageRepository) Get(ctx context.Context, id types.ContactMessageID) (*model.ContactMessage, error) {
	var rec contactMessageRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&rec).Error; err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "contact message not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get contact message", goerr.V("id", id))
	}
	return contactMessageToModel(&rec), nil
}

func (r *contactMessageRepository) List(ctx context.Context) ([]*model.ContactMessage, error) {
	var recs []contactMessageRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list contact messages")
	}
	list := make([]*model.ContactMessage, len(recs))
	for i := range recs {
		list[i] = contactMessageToModel(&recs[i])
	}
	return list, nil
}

func (r *contactMessageRepository) Update(ctx context.Context, m *model.ContactMessage) (*model.ContactMessage, error) {
	existing, err := r.Get(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	updated := *m
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Save(contactMessageToRecord(&updated)).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to update contact message", goerr.V("id", m.ID))
	}
	return &updated, nil
}

func (r *contactMessageRepository) Delete(ctx context.Context, id types.ContactMessageID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&contactMessageRecord{})
	if res.Error != nil {
		return goerr.Wrap(res.Error, "failed to delete contact message", goerr.V("id", id))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(ErrNotFound, "contact message not found", goerr.V("id", id))
	}
	return nil
}
