package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// ContactUseCase handles messages from the public contact form
type ContactUseCase struct {
	repo     interfaces.Repository
	notifier *notifier
}

// NewContactUseCase creates a new ContactUseCase instance
func NewContactUseCase(repo interfaces.Repository, n *notifier) *ContactUseCase {
	return &ContactUseCase{repo: repo, notifier: n}
}

// CreateContactMessage stores a message and notifies operators
func (uc *ContactUseCase) CreateContactMessage(ctx context.Context, m *model.ContactMessage) (*model.ContactMessage, error) {
	rec := *m
	rec.Name = strings.TrimSpace(rec.Name)
	rec.Email = strings.TrimSpace(rec.Email)
	rec.Subject = strings.TrimSpace(rec.Subject)
	rec.Read = false
	if err := rec.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid contact message")
	}

	created, err := uc.repo.ContactMessage().Create(ctx, &rec)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create contact message")
	}

	uc.notifier.send(ctx, &model.Notification{
		Title: "New contact message",
		Fields: []model.NotificationField{
			{Name: "From", Value: created.Name + " <" + created.Email + ">"},
			{Name: "Subject", Value: created.Subject},
		},
		Body: created.Body,
		Link: uc.notifier.link("/admin/messages"),
	})
	return created, nil
}

// ListContactMessages returns all messages, newest first
func (uc *ContactUseCase) ListContactMessages(ctx context.Context) ([]*model.ContactMessage, error) {
	msgs, err := uc.repo.ContactMessage().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list contact messages")
	}
	return msgs, nil
}

// MarkRead sets the read flag of a message
func (uc *ContactUseCase) MarkRead(ctx context.Context, id types.ContactMessageID, read bool) (*model.ContactMessage, error) {
	m, err := uc.repo.ContactMessage().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get contact message", goerr.V("contact_message_id", id))
	}
	if m.Read == read {
		return m, nil
	}
	m.Read = read

	updated, err := uc.repo.ContactMessage().Update(ctx, m)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update contact message", goerr.V("contact_message_id", id))
	}
	return updated, nil
}

// DeleteContactMessage removes a message
func (uc *ContactUseCase) DeleteContactMessage(ctx context.Context, id types.ContactMessageID) error {
	if err := uc.repo.ContactMessage().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete contact message", goerr.V("contact_message_id", id))
	}
	return nil
}
