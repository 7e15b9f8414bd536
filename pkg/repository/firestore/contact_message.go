package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

type contactMessageDocument struct {
	ID        string    `firestore:"id"`
	Name      string    `firestore:"name"`
	Email     string    `firestore:"email"`
	Subject   string    `firestore:"subject"`
	Body      string    `firestore:"body"`
	Read      bool      `firestore:"read"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func contactMessageToDocument(m *model.ContactMessage) *contactMessageDocument {
	return &contactMessageDocument{
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

func contactMessageToModel(d *contactMessageDocument) *model.ContactMessage {
	return &model.ContactMessage{
		ID:        types.ContactMessageID(d.ID),
		Name:      d.Name,
		Email:     d.Email,
		Subject:   d.Subject,
		Body:      d.Body,
		Read:      d.Read,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type contactMessageRepository struct {
	client     *firestore.Client
	collection string
}

func (r *contactMessageRepository) doc(id types.ContactMessageID) *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(id.String())
}

func (r *contactMessageRepository) Create(ctx context.Context, m *model.ContactMessage) (*model.ContactMessage, error) {
	created := *m
	if created.ID == "" {
		created.ID = types.NewContactMessageID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.doc(created.ID).Create(ctx, contactMessageToDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create contact message", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *contactMessageRepository) Get(ctx context.Context, id types.ContactMessageID) (*model.ContactMessage, error) {
	doc, found, err := getDoc[contactMessageDocument](ctx, r.doc(id))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, goerr.Wrap(ErrNotFound, "contact message not found", goerr.V("id", id))
	}
	return contactMessageToModel(doc), nil
}

func (r *contactMessageRepository) List(ctx context.Context) ([]*model.ContactMessage, error) {
	iter := r.client.Collection(r.collection).OrderBy("created_at", firestore.Desc).Documents(ctx)
	list, err := collect(iter, contactMessageToModel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list contact messages")
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
	if _, err := r.doc(m.ID).Set(ctx, contactMessageToDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update contact message", goerr.V("id", m.ID))
	}
	return &updated, nil
}

func (r *contactMessageRepository) Delete(ctx context.Context, id types.ContactMessageID) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	if _, err := r.doc(id).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete contact message", goerr.V("id", id))
	}
	return nil
}
