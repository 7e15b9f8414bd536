package memory

import (
	"context"
	"sync"
	"time"

	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

type columnPreferenceRepository struct {
	mu    sync.RWMutex
	prefs map[types.UserID]*model.ColumnPreference
}

func newColumnPreferenceRepository() *columnPreferenceRepository {
	return &columnPreferenceRepository{
		prefs: make(map[types.UserID]*model.ColumnPreference),
	}
}

func (r *columnPreferenceRepository) Get(ctx context.Context, userID types.UserID) (*model.ColumnPreference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.prefs[userID]
	if !exists {
		return nil, nil
	}
	return p.Clone(), nil
}

func (r *columnPreferenceRepository) Save(ctx context.Context, userID types.UserID, columns []types.ColumnID) (*model.ColumnPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	p, exists := r.prefs[userID]
	if !exists {
		p = &model.ColumnPreference{
			ID:        types.NewColumnPreferenceID(),
			UserID:    userID,
			CreatedAt: now,
		}
		r.prefs[userID] = p
	}
	p.VisibleColumns = append([]types.ColumnID(nil), columns...)
	p.UpdatedAt = now

	return p.Clone(), nil
}
