package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

type organizationDocument struct {
	ID        string    `firestore:"id"`
	Name      string    `firestore:"name"`
	Slug      string    `firestore:"slug"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func organizationToDocument(o *model.Organization) *organizationDocument {
	return &organizationDocument{
		ID:        o.ID.String(),
		Name:      o.Name,
		Slug:      o.Slug,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func organizationToModel(d *organizationDocument) *model.Organization {
	return &model.Organization{
		ID:        types.OrganizationID(d.ID),
		Name:      d.Name,
		Slug:      d.Slug,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type organizationRepository struct {
	client     *firestore.Client
	collection string
}

func (r *organizationRepository) doc(id types.OrganizationID) *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(id.String())
}

func (r *organizationRepository) Create(ctx context.Context, o *model.Organization) (*model.Organization, error) {
	created := *o
	if created.ID == "" {
		created.ID = types.NewOrganizationID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.doc(created.ID).Create(ctx, organizationToDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create organization", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *organizationRepository) Get(ctx context.Context, id types.OrganizationID) (*model.Organization, error) {
	doc, found, err := getDoc[organizationDocument](ctx, r.doc(id))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, goerr.Wrap(ErrNotFound, "organization not found", goerr.V("id", id))
	}
	return organizationToModel(doc), nil
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	iter := r.client.Collection(r.collection).Where("slug", "==", slug).Limit(1).Documents(ctx)
	list, err := collect(iter, organizationToModel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get organization by slug", goerr.V("slug", slug))
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *organizationRepository) List(ctx context.Context) ([]*model.Organization, error) {
	iter := r.client.Collection(r.collection).OrderBy("name", firestore.Asc).Documents(ctx)
	list, err := collect(iter, organizationToModel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list organizations")
	}
	return list, nil
}

func (r *organizationRepository) Update(ctx context.Context, o *model.Organization) (*model.Organization, error) {
	existing, err := r.Get(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	updated := *o
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if _, err := r.doc(o.ID).Set(ctx, organizationToDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update organization", goerr.V("id", o.ID))
	}
	return &updated, nil
}

func (r *organizationRepository) Delete(ctx context.Context, id types.OrganizationID) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	if _, err := r.doc(id).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete organization", goerr.V("id", id))
	}
	return nil
}
