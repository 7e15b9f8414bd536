package rdb

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// emailConfigRecord has one row per organization
type emailConfigRecord struct {
	OrganizationID string `gorm:"primaryKey;size:36"`
	Kind           string `gorm:"size:16;not null"`
	SMTPHost       string `gorm:"column:smtp_host"`
	SMTPPort       int    `gorm:"column:smtp_port"`
	SMTPUsername   string `gorm:"column:smtp_username"`
	SMTPPassword   string `gorm:"column:smtp_password"`
	SMTPTLS        bool   `gorm:"column:smtp_tls"`
	APIKey         string `gorm:"column:api_key"`
	FromAddress    string `gorm:"not null"`
	FromName       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (emailConfigRecord) TableName() string {
	return "email_configs"
}

func emailConfigToRecord(c *model.EmailProviderConfig) *emailConfigRecord {
	return &emailConfigRecord{
		OrganizationID: c.OrganizationID.String(),
		Kind:           c.Kind.String(),
		SMTPHost:       c.SMTP.Host,
		SMTPPort:       c.SMTP.Port,
		SMTPUsername:   c.SMTP.Username,
		SMTPPassword:   c.SMTP.Password,
		SMTPTLS:        c.SMTP.TLS,
		APIKey:         c.APIKey,
		FromAddress:    c.FromAddress,
		FromName:       c.FromName,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func emailConfigToModel(rec *emailConfigRecord) *model.EmailProviderConfig {
	return &model.EmailProviderConfig{
		OrganizationID: types.OrganizationID(rec.OrganizationID),
		Kind:           types.EmailProviderKind(rec.Kind),
		SMTP: model.SMTPSettings{
			Host:     rec.SMTPHost,
			Port:     rec.SMTPPort,
			Username: rec.SMTPUsername,
			Password: rec.SMTPPassword,
			TLS:      rec.SMTPTLS,
		},
		APIKey:      rec.APIKey,
		FromAddress: rec.FromAddress,
		FromName:    rec.FromName,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

type emailConfigRepository struct {
	db *gorm.DB
}

func (r *emailConfigRepository) Get(ctx context.Context, orgID types.OrganizationID) (*model.EmailProviderConfig, error) {
	var recs []emailConfigRecord
	if err := r.db.WithContext(ctx).Where("organization_id = ?", orgID.String()).Limit(1).Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to get email config", goerr.V("organization_id", orgID))
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return emailConfigToModel(&recs[0]), nil
}

func (r *emailConfigRepository) Put(ctx context.Context, cfg *model.EmailProviderConfig) (*model.EmailProviderConfig, error) {
	now := time.Now().UTC()
	rec := emailConfigToRecord(cfg)
	rec.CreatedAt = now
	rec.UpdatedAt = now

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "organization_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"kind", "smtp_host", "smtp_port", "smtp_username", "smtp_password", "smtp_tls",
			"api_key", "from_address", "from_name", "updated_at",
		}),
	}).Create(rec).Error
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put email config", goerr.V("organization_id", cfg.OrganizationID))
	}
	return r.Get(ctx, cfg.OrganizationID)
}

func (r *emailConfigRepository) Delete(ctx context.Context, orgID types.OrganizationID) error {
	res := r.db.WithContext(ctx).Where("organization_id = ?", orgID.String()).Delete(&emailConfigRecord{})
	if res.Error != nil {
		return goerr.Wrap(res.Error, "failed to delete email config", goerr.V("organization_id", orgID))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(ErrNotFound, "email config not found", goerr.V("organization_id", orgID))
	}
	return nil
}
