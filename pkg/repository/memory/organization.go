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

type organizationRepository struct {
	mu   sync.RWMutex
	orgs map[types.OrganizationID]*model.Organization
}

func newOrganizationRepository() *organizationRepository {
	return &organizationRepository{
		orgs: make(map[types.OrganizationID]*model.Organization),
	}
}

func copyOrganization(o *model.Organization) *model.Organization {
	c := *o
	return &c
}

func (r *organizationRepository) Create(ctx context.Context, o *model.Organization) (*model.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyOrganization(o)
	if created.ID == "" {
		created.ID = types.NewOrganizationID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.orgs[created.ID] = created
	return copyOrganization(created), nil
}

func (r *organizationRepository) Get(ctx context.Context, id types.OrganizationID) (*model.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, exists := r.orgs[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "organization not found", goerr.V("id", id))
	}
	return copyOrganization(o), nil
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orgs {
		if o.Slug == slug {
			return copyOrganization(o), nil
		}
	}
	return nil, nil
}

func (r *organizationRepository) List(ctx context.Context) ([]*model.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*model.Organization, 0, len(r.orgs))
	for _, o := range r.orgs {
		list = append(list, copyOrganization(o))
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list, nil
}

func (r *organizationRepository) Update(ctx context.Context, o *model.Organization) (*model.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.orgs[o.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "organization not found", goerr.V("id", o.ID))
	}
	updated := copyOrganization(o)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.orgs[updated.ID] = updated
	return copyOrganization(updated), nil
}

func (r *organizationRepository) Delete(ctx context.Context, id types.OrganizationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orgs[id]; !exists {
		return goerr.Wrap(ErrNotFound, "organization not found", goerr.V("id", id))
	}
	delete(r.orgs, id)
	return nil
}
