package usecase

import (
	"context"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

// PreferenceUseCase manages the per-user visible table columns. The repository
// is authoritative; reads go through an in-process TTL cache that every save
// writes through.
type PreferenceUseCase struct {
	repo     interfaces.Repository
	defaults []types.ColumnID
	cache    *ttlCache[types.UserID, *model.ColumnPreference]
}

// NewPreferenceUseCase creates a new PreferenceUseCase instance
func NewPreferenceUseCase(repo interfaces.Repository, defaults []types.ColumnID, ttl time.Duration) *PreferenceUseCase {
	normalized, ok := model.NormalizeColumns(defaults)
	if !ok {
		normalized = types.DefaultVisibleColumns()
	}
	return &PreferenceUseCase{
		repo:     repo,
		defaults: normalized,
		cache:    newTTLCache[types.UserID, *model.ColumnPreference](ttl),
	}
}

// DefaultColumns returns the columns shown when a user saved nothing usable
func (uc *PreferenceUseCase) DefaultColumns() []types.ColumnID {
	return slices.Clone(uc.defaults)
}

// GetColumnPreference returns the stored preference of the user, or nil when none is saved
func (uc *PreferenceUseCase) GetColumnPreference(ctx context.Context, userID types.UserID) (*model.ColumnPreference, error) {
	if pref, ok := uc.cache.get(userID); ok {
		return pref.Clone(), nil
	}

	pref, err := uc.repo.ColumnPreference().Get(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get column preference", goerr.V(UserIDKey, userID))
	}
	uc.cache.set(userID, pref.Clone())
	return pref, nil
}

// SaveColumnPreference stores the visible columns of the user. Unknown and
// duplicate identifiers are dropped; nothing valid is an input error.
func (uc *PreferenceUseCase) SaveColumnPreference(ctx context.Context, userID types.UserID, columns []types.ColumnID) (*model.ColumnPreference, error) {
	normalized, ok := model.NormalizeColumns(columns)
	if !ok {
		return nil, goerr.Wrap(types.ErrInvalidColumn, "no valid column to show",
			goerr.V(UserIDKey, userID), goerr.V("columns", columns))
	}

	pref, err := uc.repo.ColumnPreference().Save(ctx, userID, normalized)
	if err != nil {
		uc.cache.remove(userID)
		return nil, goerr.Wrap(err, "failed to save column preference", goerr.V(UserIDKey, userID))
	}
	uc.cache.set(userID, pref.Clone())
	return pref, nil
}

// VisibleColumns returns the columns to show for the user, falling back to the
// defaults when nothing or nothing readable is saved.
func (uc *PreferenceUseCase) VisibleColumns(ctx context.Context, userID types.UserID) ([]types.ColumnID, error) {
	pref, err := uc.GetColumnPreference(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return uc.DefaultColumns(), nil
	}

	cols, ok := model.NormalizeColumns(pref.VisibleColumns)
	if !ok {
		logging.From(ctx).Warn("unreadable column preference, using defaults",
			"user_id", userID, "columns", pref.VisibleColumns)
		return uc.DefaultColumns(), nil
	}
	return cols, nil
}

// SetColumnVisible shows or hides one column and persists the result. Hiding
// the last visible column is ignored.
func (uc *PreferenceUseCase) SetColumnVisible(ctx context.Context, userID types.UserID, column types.ColumnID, visible bool) ([]types.ColumnID, error) {
	if !column.IsValid() {
		return nil, goerr.Wrap(types.ErrInvalidColumn, "unknown column", goerr.V("column", column))
	}

	current, err := uc.VisibleColumns(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := slices.DeleteFunc(slices.Clone(current), func(c types.ColumnID) bool { return c == column })
	if visible {
		next = append(next, column)
	}
	if len(next) == 0 {
		return current, nil
	}

	pref, err := uc.SaveColumnPreference(ctx, userID, next)
	if err != nil {
		return nil, err
	}
	return pref.VisibleColumns, nil
}
