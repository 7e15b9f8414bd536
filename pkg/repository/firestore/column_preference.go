package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// columnPreferenceDocument is keyed by user ID
type columnPreferenceDocument struct {
	ID             string    `firestore:"id"`
	UserID         string    `firestore:"user_id"`
	VisibleColumns []string  `firestore:"visible_columns"`
	CreatedAt      time.Time `firestore:"created_at"`
	UpdatedAt      time.Time `firestore:"updated_at"`
}

func columnPreferenceToModel(d *columnPreferenceDocument) *model.ColumnPreference {
	p := &model.ColumnPreference{
		ID:        types.ColumnPreferenceID(d.ID),
		UserID:    types.UserID(d.UserID),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, c := range d.VisibleColumns {
		p.VisibleColumns = append(p.VisibleColumns, types.ColumnID(c))
	}
	return p
}

type columnPreferenceRepository struct {
	client     *firestore.Client
	collection string
}

func (r *columnPreferenceRepository) doc(userID types.UserID) *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(userID.String())
}

func (r *columnPreferenceRepository) Get(ctx context.Context, userID types.UserID) (*model.ColumnPreference, error) {
	doc, found, err := getDoc[columnPreferenceDocument](ctx, r.doc(userID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return columnPreferenceToModel(doc), nil
}

func (r *columnPreferenceRepository) Save(ctx context.Context, userID types.UserID, columns []types.ColumnID) (*model.ColumnPreference, error) {
	visible := make([]string, len(columns))
	for i, c := range columns {
		visible[i] = c.String()
	}

	var saved *columnPreferenceDocument
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		now := time.Now().UTC()
		doc := &columnPreferenceDocument{
			ID:        types.NewColumnPreferenceID().String(),
			UserID:    userID.String(),
			CreatedAt: now,
		}

		snap, err := tx.Get(r.doc(userID))
		switch {
		case err == nil:
			if err := snap.DataTo(doc); err != nil {
				return goerr.Wrap(err, "failed to decode column preference")
			}
		case status.Code(err) == codes.NotFound:
		default:
			return goerr.Wrap(err, "failed to get column preference")
		}

		doc.VisibleColumns = visible
		doc.UpdatedAt = now
		saved = doc
		return tx.Set(r.doc(userID), doc)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save column preference", goerr.V("user_id", userID))
	}
	return columnPreferenceToModel(saved), nil
}
