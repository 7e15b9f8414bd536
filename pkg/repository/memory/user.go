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

type userRepository struct {
	mu    sync.RWMutex
	users map[types.UserID]*model.User
}

func newUserRepository() *userRepository {
	return &userRepository{
		users: make(map[types.UserID]*model.User),
	}
}

func copyUser(u *model.User) *model.User {
	c := *u
	return &c
}

func (r *userRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyUser(u)
	if created.ID == "" {
		created.ID = types.NewUserID()
	}
	created.Email = model.NormalizeEmail(created.Email)
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.users[created.ID] = created
	return copyUser(created), nil
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.users[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}
	return copyUser(u), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = model.NormalizeEmail(email)
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *userRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*model.User, 0)
	for _, u := range r.users {
		if orgID == "" || u.OrganizationID == orgID {
			list = append(list, copyUser(u))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Email < list[j].Email
	})
	return list, nil
}

func (r *userRepository) Update(ctx context.Context, u *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.users[u.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", u.ID))
	}
	updated := copyUser(u)
	updated.Email = model.NormalizeEmail(updated.Email)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.users[updated.ID] = updated
	return copyUser(updated), nil
}

func (r *userRepository) Delete(ctx context.Context, id types.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[id]; !exists {
		return goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}
	delete(r.users, id)
	return nil
}
