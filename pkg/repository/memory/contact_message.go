package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

type contactMessageRepository struct {
	mu       sync.RWMutex
	messages map[types.ContactMessageID]*model.ContactMessage
}

func newContactMessageRepository() *contactMessageRepository {
	return &contactMessageRepository{
		messages: make(map[types.ContactMessageID]*model.ContactMessage),
	}
}

func copyContactMessage(m *model.ContactMessage) *model.ContactMessage {
	c := *m
	return &c
}

func (r *contactMessageRepository) Create(ctx context.Context, m *model.ContactMessage) (*model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyContactMessage(m)
	if created.ID == "" {
		created.ID = types.NewContactMessageID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.messages[created.ID] = created
	return copyContactMessage(created), nil
}

func (r *contactMessageRepository) Get(ctx context.Context, id types.ContactMessageID) (*model.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.messages[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "contact message not found", goerr.V("id", id))
	}
	return copyContactMessage(m), nil
}

func (r *contactMessageRepository) List(ctx context.Context) ([]*model.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*model.ContactMessage, 0, len(r.messages))
	for _, m := range r.messages {
		list = append(list, copyContactMessage(m))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (r *contactMessageRepository) Update(ctx context.Context, m *model.ContactMessage) (*model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.messages[m.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "contact message not found", goerr.V("id", m.ID))
	}
	updated := copyContactMessage(m)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.messages[updated.ID] = updated
	return copyContactMessage(updated), nil
}

func (r *contactMessageRepository) Delete(ctx context.Context, id types.ContactMessageID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.messages[id]; !exists {
		return goerr.Wrap(ErrNotFound, "contact message not found", goerr.V("id", id))
	}
	delete(r.messages, id)
	return nil
}
