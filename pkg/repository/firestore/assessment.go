package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type assessmentDocument struct {
	ID             string         `firestore:"id"`
	OrganizationID string         `firestore:"organization_id"`
	AssessmentDate time.Time      `firestore:"assessment_date"`
	Controls       map[string]int `firestore:"controls"` // key: control1..control18, absent when not assessed
	TotalScore     *int           `firestore:"total_score"`
	ImportMethod   string         `firestore:"import_method"`
	ImportedBy     string         `firestore:"imported_by"`
	CreatedAt      time.Time      `firestore:"created_at"`
	UpdatedAt      time.Time      `firestore:"updated_at"`
}

func assessmentToDocument(a *model.Assessment) *assessmentDocument {
	doc := &assessmentDocument{
		ID:             a.ID.String(),
		OrganizationID: a.OrganizationID.String(),
		AssessmentDate: model.DateOf(a.AssessmentDate),
		Controls:       make(map[string]int),
		TotalScore:     a.TotalScore,
		ImportMethod:   a.ImportMethod.String(),
		ImportedBy:     a.ImportedBy,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	for i, v := range a.Controls {
		if v != nil {
			doc.Controls[types.ControlColumn(i+1).String()] = *v
		}
	}
	return doc
}

func assessmentToModel(doc *assessmentDocument) *model.Assessment {
	a := &model.Assessment{
		ID:             types.AssessmentID(doc.ID),
		OrganizationID: types.OrganizationID(doc.OrganizationID),
		AssessmentDate: model.DateOf(doc.AssessmentDate),
		TotalScore:     doc.TotalScore,
		ImportMethod:   types.ImportMethod(doc.ImportMethod),
		ImportedBy:     doc.ImportedBy,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
	for key, v := range doc.Controls {
		if n := types.ColumnID(key).ControlNumber(); n > 0 {
			a.Controls.Set(n, cis18.Score(v))
		}
	}
	return a
}

type assessmentRepository struct {
	client     *firestore.Client
	collection string
}

func (r *assessmentRepository) doc(id types.AssessmentID) *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(id.String())
}

func (r *assessmentRepository) Create(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	created := a.Clone()
	if created.ID == "" {
		created.ID = types.NewAssessmentID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.doc(created.ID).Create(ctx, assessmentToDocument(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment", goerr.V("id", created.ID))
	}
	created.AssessmentDate = model.DateOf(created.AssessmentDate)
	return created, nil
}

func (r *assessmentRepository) Get(ctx context.Context, orgID types.OrganizationID, id types.AssessmentID) (*model.Assessment, error) {
	doc, found, err := getDoc[assessmentDocument](ctx, r.doc(id))
	if err != nil {
		return nil, err
	}
	if !found || doc.OrganizationID != orgID.String() {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found",
			goerr.V("organization_id", orgID), goerr.V("id", id))
	}
	return assessmentToModel(doc), nil
}

func (r *assessmentRepository) query(orgID types.OrganizationID) firestore.Query {
	return r.client.Collection(r.collection).
		Where("organization_id", "==", orgID.String()).
		OrderBy("assessment_date", firestore.Desc).
		OrderBy("created_at", firestore.Desc).
		OrderBy(firestore.DocumentID, firestore.Desc)
}

func (r *assessmentRepository) GetLatest(ctx context.Context, orgID types.OrganizationID) (*model.Assessment, error) {
	list, err := collect(r.query(orgID).Limit(1).Documents(ctx), assessmentToModel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get latest assessment", goerr.V("organization_id", orgID))
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *assessmentRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.Assessment, error) {
	list, err := collect(r.query(orgID).Documents(ctx), assessmentToModel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments", goerr.V("organization_id", orgID))
	}
	return list, nil
}

func (r *assessmentRepository) Update(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	var updated *model.Assessment
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(r.doc(a.ID))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", a.ID))
			}
			return goerr.Wrap(err, "failed to get assessment", goerr.V("id", a.ID))
		}
		var existing assessmentDocument
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode assessment", goerr.V("id", a.ID))
		}
		if existing.OrganizationID != a.OrganizationID.String() {
			return goerr.Wrap(ErrNotFound, "assessment not found",
				goerr.V("organization_id", a.OrganizationID), goerr.V("id", a.ID))
		}

		updated = a.Clone()
		updated.AssessmentDate = model.DateOf(updated.AssessmentDate)
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		return tx.Set(r.doc(a.ID), assessmentToDocument(updated))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update assessment")
	}
	return updated, nil
}

func (r *assessmentRepository) Delete(ctx context.Context, orgID types.OrganizationID, id types.AssessmentID) error {
	if _, err := r.Get(ctx, orgID, id); err != nil {
		return err
	}
	if _, err := r.doc(id).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete assessment", goerr.V("id", id))
	}
	return nil
}
