package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

type userDocument struct {
	ID             string    `firestore:"id"`
	Email          string    `firestore:"email"`
	Name           string    `firestore:"name"`
	Role           string    `firestore:"role"`
	OrganizationID string    `firestore:"organization_id"`
	PasswordHash   string    `firestore:"password_hash"`
	CreatedAt      time.Time `firestore:"created_at"`
	UpdatedAt      time.Time `firestore:"updated_at"`
}

func userToDocument(u *model.User) *userDocument {
	return &userDocument{
		ID:             u.ID.String(),
		Email:          model.NormalizeEmail(u.Email),
		Name:           u.Name,
		Role:           string(u.Role),
		OrganizationID: u.OrganizationID.String(),
		PasswordHash:   u.PasswordHash,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func userToModel(d *userDocument) *model.User {
	return &model.User{
		ID:             types.UserID(d.ID),
		Email:          d.Email,
		Name:           d.Name,
		Role:           types.UserRole(d.Role),
		OrganizationID: types.OrganizationID(d.OrganizationID),
		PasswordHash:   d.PasswordHash,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type userRepository struct {
	client     *firestore.Client
	collection string
}

func (r *userRepository) doc(id types.UserID) *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(id.String())
}

func (r *userRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	created := *u
	if created.ID == "" {
		created.ID = types.NewUserID()
	}
	created.Email = model.NormalizeEmail(created.Email)
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.doc(created.ID).Create(ctx, userToDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create user", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	doc, found, err := getDoc[userDocument](ctx, r.doc(id))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}
	return userToModel(doc), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	iter := r.client.Collection(r.collection).
		Where("email", "==", model.NormalizeEmail(email)).
		Limit(1).
		Documents(ctx)
	list, err := collect(iter, userToModel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user by email")
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *userRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.User, error) {
	q := r.client.Collection(r.collection).Query
	if orgID != "" {
		q = q.Where("organization_id", "==", orgID.String())
	}
	list, err := collect(q.OrderBy("email", firestore.Asc).Documents(ctx), userToModel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list users", goerr.V("organization_id", orgID))
	}
	return list, nil
}

func (r *userRepository) Update(ctx context.Context, u *model.User) (*model.User, error) {
	existing, err := r.Get(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	updated := *u
	updated.Email = model.NormalizeEmail(updated.Email)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if _, err := r.doc(u.ID).Set(ctx, userToDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update user", goerr.V("id", u.ID))
	}
	return &updated, nil
}

func (r *userRepository) Delete(ctx context.Context, id types.UserID) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	if _, err := r.doc(id).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete user", goerr.V("id", id))
	}
	return nil
}
