package model

import (
	"time"

	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// ColumnPreference is the per-user set of visible table columns
type ColumnPreference struct {
	ID             types.ColumnPreferenceID
	UserID         types.UserID
	VisibleColumns []types.ColumnID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NormalizeColumns drops unknown and duplicate columns and orders the rest as in
// types.AllColumns. ok is false when nothing valid remains.
func NormalizeColumns(cols []types.ColumnID) (normalized []types.ColumnID, ok bool) {
	want := make(map[types.ColumnID]bool, len(cols))
	for _, c := range cols {
		if c.IsValid() {
			want[c] = true
		}
	}
	for _, c := range types.AllColumns() {
		if want[c] {
			normalized = append(normalized, c)
		}
	}
	return normalized, len(normalized) > 0
}

// Clone returns a deep copy
func (p *ColumnPreference) Clone() *ColumnPreference {
	if p == nil {
		return nil
	}
	c := *p
	c.VisibleColumns = append([]types.ColumnID(nil), p.VisibleColumns...)
	return &c
}
