package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

type emailConfigRepository struct {
	mu      sync.RWMutex
	configs map[types.OrganizationID]*model.EmailProviderConfig
}

func newEmailConfigRepository() *emailConfigRepository {
	return &emailConfigRepository{
		configs: make(map[types.OrganizationID]*model.EmailProviderConfig),
	}
}

func copyEmailConfig(c *model.EmailProviderConfig) *model.EmailProviderConfig {
	v := *c
	return &v
}

func (r *emailConfigRepository) Get(ctx context.Context, orgID types.OrganizationID) (*model.EmailProviderConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.configs[orgID]
	if !exists {
		return nil, nil
	}
	return copyEmailConfig(c), nil
}

func (r *emailConfigRepository) Put(ctx context.Context, cfg *model.EmailProviderConfig) (*model.EmailProviderConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := copyEmailConfig(cfg)
	stored.CreatedAt = now
	if existing, exists := r.configs[cfg.OrganizationID]; exists {
		stored.CreatedAt = existing.CreatedAt
	}
	stored.UpdatedAt = now
	r.configs[stored.OrganizationID] = stored
	return copyEmailConfig(stored), nil
}

func (r *emailConfigRepository) Delete(ctx context.Context, orgID types.OrganizationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[orgID]; !exists {
		return goerr.Wrap(ErrNotFound, "email config not found", goerr.V("organization_id", orgID))
	}
	delete(r.configs, orgID)
	return nil
}
