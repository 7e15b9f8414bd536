package rdb

import (
	"context"
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type columnPreferenceRecord struct {
	ID             string         `gorm:"primaryKey;size:36"`
	UserID         string         `gorm:"size:36;not null;uniqueIndex"`
	VisibleColumns datatypes.JSON `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (columnPreferenceRecord) TableName() string {
	return "column_preferences"
}

// columnPreferenceToModel keeps unreadable blobs as an empty column set; callers
// fall back to the default columns.
func columnPreferenceToModel(rec *columnPreferenceRecord) *model.ColumnPreference {
	p := &model.ColumnPreference{
		ID:        types.ColumnPreferenceID(rec.ID),
		UserID:    types.UserID(rec.UserID),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	var cols []string
	if err := json.Unmarshal(rec.VisibleColumns, &cols); err == nil {
		for _, c := range cols {
			p.VisibleColumns = append(p.VisibleColumns, types.ColumnID(c))
		}
	}
	return p
}

type columnPreferenceRepository struct {
	db *gorm.DB
}

func (r *columnPreferenceRepository) Get(ctx context.Context, userID types.UserID) (*model.ColumnPreference, error) {
	var recs []columnPreferenceRecord
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID.String()).Limit(1).Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to get column preference", goerr.V("user_id", userID))
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return columnPreferenceToModel(&recs[0]), nil
}

func (r *columnPreferenceRepository) Save(ctx context.Context, userID types.UserID, columns []types.ColumnID) (*model.ColumnPreference, error) {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = c.String()
	}
	raw, err := json.Marshal(cols)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal visible columns")
	}

	now := time.Now().UTC()
	rec := &columnPreferenceRecord{
		ID:             types.NewColumnPreferenceID().String(),
		UserID:         userID.String(),
		VisibleColumns: datatypes.JSON(raw),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"visible_columns", "updated_at"}),
	}).Create(rec).Error
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save column preference", goerr.V("user_id", userID))
	}

	return r.Get(ctx, userID)
}
