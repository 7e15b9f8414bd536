package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

type leadDocument struct {
	ID               string    `firestore:"id"`
	OrganizationID   string    `firestore:"organization_id"`
	Name             string    `firestore:"name"`
	Email            string    `firestore:"email"`
	Phone            string    `firestore:"phone"`
	Role             string    `firestore:"role"`
	CompanySize      string    `firestore:"company_size"`
	SecurityMaturity string    `firestore:"security_maturity"`
	Message          string    `firestore:"message"`
	Status           string    `firestore:"status"`
	CreatedAt        time.Time `firestore:"created_at"`
	UpdatedAt        time.Time `firestore:"updated_at"`
}

func leadToDocument(l *model.Lead) *leadDocument {
	return &leadDocument{
		ID:               l.ID.String(),
		OrganizationID:   l.OrganizationID.String(),
		Name:             l.Name,
		Email:            l.Email,
		Phone:            l.Phone,
		Role:             l.Role,
		CompanySize:      l.CompanySize,
		SecurityMaturity: l.SecurityMaturity,
		Message:          l.Message,
		Status:           l.Status,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

func leadToModel(d *leadDocument) *model.Lead {
	return &model.Lead{
		ID:               types.LeadID(d.ID),
		OrganizationID:   types.OrganizationID(d.OrganizationID),
		Name:             d.Name,
		Email:            d.Email,
		Phone:            d.Phone,
		Role:             d.Role,
		CompanySize:      d.CompanySize,
		SecurityMaturity: d.SecurityMaturity,
		Message:          d.Message,
		Status:           d.Status,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

type leadRepository struct {
	client     *firestore.Client
	collection string
}

func (r *leadRepository) doc(id types.LeadID) *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(id.String())
}

func (r *leadRepository) Create(ctx context.Context, l *model.Lead) (*model.Lead, error) {
	created := *l
	if created.ID == "" {
		created.ID = types.NewLeadID()
	}
	if created.Status == "" {
		created.Status = model.LeadStatusNew
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.doc(created.ID).Create(ctx, leadToDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create lead", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *leadRepository) Get(ctx context.Context, orgID types.OrganizationID, id types.LeadID) (*model.Lead, error) {
	doc, found, err := getDoc[leadDocument](ctx, r.doc(id))
	if err != nil {
		return nil, err
	}
	if !found || doc.OrganizationID != orgID.String() {
		return nil, goerr.Wrap(ErrNotFound, "lead not found", goerr.V("organization_id", orgID), goerr.V("id", id))
	}
	return leadToModel(doc), nil
}

func (r *leadRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.Lead, error) {
	iter := r.client.Collection(r.collection).
		Where("organization_id", "==", orgID.String()).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	list, err := collect(iter, leadToModel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list leads", goerr.V("organization_id", orgID))
	}
	return list, nil
}

func (r *leadRepository) Update(ctx context.Context, l *model.Lead) (*model.Lead, error) {
	existing, err := r.Get(ctx, l.OrganizationID, l.ID)
	if err != nil {
		return nil, err
	}
	updated := *l
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if _, err := r.doc(l.ID).Set(ctx, leadToDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update lead", goerr.V("id", l.ID))
	}
	return &updated, nil
}

func (r *leadRepository) Delete(ctx context.Context, orgID types.OrganizationID, id types.LeadID) error {
	if _, err := r.Get(ctx, orgID, id); err != nil {
		return err
	}
	if _, err := r.doc(id).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete lead", goerr.V("id", id))
	}
	return nil
}
