package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// emailConfigDocument is keyed by organization ID
type emailConfigDocument struct {
	OrganizationID string             `firestore:"organization_id"`
	Kind           string             `firestore:"kind"`
	SMTP           *smtpSettingsField `firestore:"smtp,omitempty"`
	APIKey         string             `firestore:"api_key"`
	FromAddress    string             `firestore:"from_address"`
	FromName       string             `firestore:"from_name"`
	CreatedAt      time.Time          `firestore:"created_at"`
	UpdatedAt      time.Time          `firestore:"updated_at"`
}

type smtpSettingsField struct {
	Host     string `firestore:"host"`
	Port     int    `firestore:"port"`
	Username string `firestore:"username"`
	Password string `firestore:"password"`
	TLS      bool   `firestore:"tls"`
}

func emailConfigToDocument(c *model.EmailProviderConfig) *emailConfigDocument {
	doc := &emailConfigDocument{
		OrganizationID: c.OrganizationID.String(),
		Kind:           c.Kind.String(),
		APIKey:         c.APIKey,
		FromAddress:    c.FromAddress,
		FromName:       c.FromName,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	if c.Kind == types.EmailProviderSMTP {
		doc.SMTP = &smtpSettingsField{
			Host:     c.SMTP.Host,
			Port:     c.SMTP.Port,
			Username: c.SMTP.Username,
			Password: c.SMTP.Password,
			TLS:      c.SMTP.TLS,
		}
	}
	return doc
}

func emailConfigToModel(d *emailConfigDocument) *model.EmailProviderConfig {
	c := &model.EmailProviderConfig{
		OrganizationID: types.OrganizationID(d.OrganizationID),
		Kind:           types.EmailProviderKind(d.Kind),
		APIKey:         d.APIKey,
		FromAddress:    d.FromAddress,
		FromName:       d.FromName,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if d.SMTP != nil {
		c.SMTP = model.SMTPSettings{
			Host:     d.SMTP.Host,
			Port:     d.SMTP.Port,
			Username: d.SMTP.Username,
			Password: d.SMTP.Password,
			TLS:      d.SMTP.TLS,
		}
	}
	return c
}

type emailConfigRepository struct {
	client     *firestore.Client
	collection string
}

func (r *emailConfigRepository) doc(orgID types.OrganizationID) *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(orgID.String())
}

func (r *emailConfigRepository) Get(ctx context.Context, orgID types.OrganizationID) (*model.EmailProviderConfig, error) {
	doc, found, err := getDoc[emailConfigDocument](ctx, r.doc(orgID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return emailConfigToModel(doc), nil
}

func (r *emailConfigRepository) Put(ctx context.Context, cfg *model.EmailProviderConfig) (*model.EmailProviderConfig, error) {
	existing, err := r.Get(ctx, cfg.OrganizationID)
	if err != nil {
		return nil, err
	}
	stored := *cfg
	now := time.Now().UTC()
	stored.CreatedAt = now
	if existing != nil {
		stored.CreatedAt = existing.CreatedAt
	}
	stored.UpdatedAt = now

	if _, err := r.doc(cfg.OrganizationID).Set(ctx, emailConfigToDocument(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to put email config", goerr.V("organization_id", cfg.OrganizationID))
	}
	return &stored, nil
}

func (r *emailConfigRepository) Delete(ctx context.Context, orgID types.OrganizationID) error {
	existing, err := r.Get(ctx, orgID)
	if err != nil {
		return err
	}
	if existing == nil {
		return goerr.Wrap(ErrNotFound, "email config not found", goerr.V("organization_id", orgID))
	}
	if _, err := r.doc(orgID).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete email config", goerr.V("organization_id", orgID))
	}
	return nil
}
