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

type leadRepository struct {
	mu    sync.RWMutex
	leads map[types.LeadID]*model.Lead
}

func newLeadRepository() *leadRepository {
	return &leadRepository{
		leads: make(map[types.LeadID]*model.Lead),
	}
}

func copyLead(l *model.Lead) *model.Lead {
	c := *l
	return &c
}

func (r *leadRepository) Create(ctx context.Context, l *model.Lead) (*model.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyLead(l)
	if created.ID == "" {
		created.ID = types.NewLeadID()
	}
	if created.Status == "" {
		created.Status = model.LeadStatusNew
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.leads[created.ID] = created
	return copyLead(created), nil
}

func (r *leadRepository) Get(ctx context.Context, orgID types.OrganizationID, id types.LeadID) (*model.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, exists := r.leads[id]
	if !exists || l.OrganizationID != orgID {
		return nil, goerr.Wrap(ErrNotFound, "lead not found", goerr.V("organization_id", orgID), goerr.V("id", id))
	}
	return copyLead(l), nil
}

func (r *leadRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*model.Lead, 0)
	for _, l := range r.leads {
		if l.OrganizationID == orgID {
			list = append(list, copyLead(l))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (r *leadRepository) Update(ctx context.Context, l *model.Lead) (*model.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.leads[l.ID]
	if !exists || existing.OrganizationID != l.OrganizationID {
		return nil, goerr.Wrap(ErrNotFound, "lead not found", goerr.V("organization_id", l.OrganizationID), goerr.V("id", l.ID))
	}

	updated := copyLead(l)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.leads[updated.ID] = updated
	return copyLead(updated), nil
}

func (r *leadRepository) Delete(ctx context.Context, orgID types.OrganizationID, id types.LeadID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, exists := r.leads[id]
	if !exists || l.OrganizationID != orgID {
		return goerr.Wrap(ErrNotFound, "lead not found", goerr.V("organization_id", orgID), goerr.V("id", id))
	}
	delete(r.leads, id)
	return nil
}
