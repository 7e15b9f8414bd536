package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

// EmailUseCase manages the outgoing email provider of each organization
type EmailUseCase struct {
	repo   interfaces.Repository
	sender interfaces.EmailSender
}

// NewEmailUseCase creates a new EmailUseCase instance
func NewEmailUseCase(repo interfaces.Repository, sender interfaces.EmailSender) *EmailUseCase {
	return &EmailUseCase{repo: repo, sender: sender}
}

// GetEmailConfig returns the configuration with secrets masked, or nil when none is set
func (uc *EmailUseCase) GetEmailConfig(ctx context.Context, orgID types.OrganizationID) (*model.EmailProviderConfig, error) {
	cfg, err := uc.repo.EmailConfig().Get(ctx, orgID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get email config", goerr.V(OrganizationIDKey, orgID))
	}
	return cfg.Masked(), nil
}

// IsConfigured reports whether the organization can send email
func (uc *EmailUseCase) IsConfigured(ctx context.Context, orgID types.OrganizationID) (bool, error) {
	if uc.sender == nil {
		return false, nil
	}
	cfg, err := uc.repo.EmailConfig().Get(ctx, orgID)
	if err != nil {
		return false, goerr.Wrap(err, "failed to get email config", goerr.V(OrganizationIDKey, orgID))
	}
	return cfg != nil, nil
}

// SaveEmailConfig stores the configuration. Masked or empty secrets keep the stored ones.
func (uc *EmailUseCase) SaveEmailConfig(ctx context.Context, cfg *model.EmailProviderConfig) (*model.EmailProviderConfig, error) {
	prev, err := uc.repo.EmailConfig().Get(ctx, cfg.OrganizationID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get email config", goerr.V(OrganizationIDKey, cfg.OrganizationID))
	}

	rec := *cfg
	rec.FromAddress = strings.TrimSpace(rec.FromAddress)
	rec.MergeSecrets(prev)
	if err := rec.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid email config", goerr.V(OrganizationIDKey, cfg.OrganizationID))
	}

	saved, err := uc.repo.EmailConfig().Put(ctx, &rec)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save email config", goerr.V(OrganizationIDKey, cfg.OrganizationID))
	}
	logging.From(ctx).Info("email config saved", "organization_id", saved.OrganizationID, "kind", saved.Kind)
	return saved.Masked(), nil
}

// DeleteEmailConfig removes the configuration of an organization
func (uc *EmailUseCase) DeleteEmailConfig(ctx context.Context, orgID types.OrganizationID) error {
	if err := uc.repo.EmailConfig().Delete(ctx, orgID); err != nil {
		return goerr.Wrap(err, "failed to delete email config", goerr.V(OrganizationIDKey, orgID))
	}
	return nil
}

// SendEmail delivers msg through the organization's provider
func (uc *EmailUseCase) SendEmail(ctx context.Context, orgID types.OrganizationID, msg *model.EmailMessage) error {
	if uc.sender == nil {
		return goerr.Wrap(ErrEmailNotConfigured, "no email sender", goerr.V(OrganizationIDKey, orgID))
	}
	cfg, err := uc.repo.EmailConfig().Get(ctx, orgID)
	if err != nil {
		return goerr.Wrap(err, "failed to get email config", goerr.V(OrganizationIDKey, orgID))
	}
	if cfg == nil {
		return goerr.Wrap(ErrEmailNotConfigured, "organization has no email provider", goerr.V(OrganizationIDKey, orgID))
	}

	if err := uc.sender.Send(ctx, cfg, msg); err != nil {
		return goerr.Wrap(err, "failed to send email",
			goerr.V(OrganizationIDKey, orgID), goerr.V("kind", cfg.Kind))
	}
	logging.From(ctx).Info("email sent", "organization_id", orgID, "kind", cfg.Kind, "recipients", len(msg.To))
	return nil
}

// TestEmail sends a fixed message to check the provider settings
func (uc *EmailUseCase) TestEmail(ctx context.Context, orgID types.OrganizationID, to string) error {
	to = strings.TrimSpace(to)
	if err := model.ValidateEmail(to); err != nil {
		return goerr.Wrap(err, "invalid test recipient")
	}
	return uc.SendEmail(ctx, orgID, &model.EmailMessage{
		To:      []string{to},
		Subject: "cisboard test email",
		Text:    fmt.Sprintf("This is a test email from cisboard for organization %s.\nYour email provider is configured correctly.", orgID),
	})
}
