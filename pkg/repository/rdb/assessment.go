package rdb

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type assessmentRecord struct {
	ID             string         `gorm:"primaryKey;size:36"`
	OrganizationID string         `gorm:"size:36;not null;index:idx_assessments_org_date,priority:1"`
	AssessmentDate datatypes.Date `gorm:"not null;index:idx_assessments_org_date,priority:2"`
	Control1       *int           `gorm:"column:control1;check:control1 BETWEEN 0 AND 100"`
	Control2       *int           `gorm:"column:control2;check:control2 BETWEEN 0 AND 100"`
	Control3       *int           `gorm:"column:control3;check:control3 BETWEEN 0 AND 100"`
	Control4       *int           `gorm:"column:control4;check:control4 BETWEEN 0 AND 100"`
	Control5       *int           `gorm:"column:control5;check:control5 BETWEEN 0 AND 100"`
	Control6       *int           `gorm:"column:control6;check:control6 BETWEEN 0 AND 100"`
	Control7       *int           `gorm:"column:control7;check:control7 BETWEEN 0 AND 100"`
	Control8       *int           `gorm:"column:control8;check:control8 BETWEEN 0 AND 100"`
	Control9       *int           `gorm:"column:control9;check:control9 BETWEEN 0 AND 100"`
	Control10      *int           `gorm:"column:control10;check:control10 BETWEEN 0 AND 100"`
	Control11      *int           `gorm:"column:control11;check:control11 BETWEEN 0 AND 100"`
	Control12      *int           `gorm:"column:control12;check:control12 BETWEEN 0 AND 100"`
	Control13      *int           `gorm:"column:control13;check:control13 BETWEEN 0 AND 100"`
	Control14      *int           `gorm:"column:control14;check:control14 BETWEEN 0 AND 100"`
	Control15      *int           `gorm:"column:control15;check:control15 BETWEEN 0 AND 100"`
	Control16      *int           `gorm:"column:control16;check:control16 BETWEEN 0 AND 100"`
	Control17      *int           `gorm:"column:control17;check:control17 BETWEEN 0 AND 100"`
	Control18      *int           `gorm:"column:control18;check:control18 BETWEEN 0 AND 100"`
	TotalScore     *int           `gorm:"check:total_score BETWEEN 0 AND 100"`
	ImportMethod   *string        `gorm:"size:64"`
	ImportedBy     *string        `gorm:"size:255"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (assessmentRecord) TableName() string {
	return "assessments"
}

// controlFields returns pointers to the 18 control columns in control order
func (r *assessmentRecord) controlFields() [types.ControlCount]**int {
	return [types.ControlCount]**int{&r.Control1, &r.Control2, &r.Control3, &r.Control4, &r.Control5, &r.Control6, &r.Control7, &r.Control8, &r.Control9, &r.Control10, &r.Control11, &r.Control12, &r.Control13, &r.Control14, &r.Control15, &r.Control16, &r.Control17, &r.Control18}
}

func assessmentToRecord(a *model.Assessment) *assessmentRecord {
	rec := &assessmentRecord{
		ID:             a.ID.String(),
		OrganizationID: a.OrganizationID.String(),
		AssessmentDate: datatypes.Date(model.DateOf(a.AssessmentDate)),
		TotalScore:     a.TotalScore,
		ImportMethod:   nullString(a.ImportMethod.String()),
		ImportedBy:     nullString(a.ImportedBy),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	for i, f := range rec.controlFields() {
		if v := a.Controls[i]; v != nil {
			*f = cis18.Score(*v)
		}
	}
	return rec
}

func assessmentToModel(rec *assessmentRecord) *model.Assessment {
	a := &model.Assessment{
		ID:             types.AssessmentID(rec.ID),
		OrganizationID: types.OrganizationID(rec.OrganizationID),
		AssessmentDate: model.DateOf(time.Time(rec.AssessmentDate)),
		TotalScore:     rec.TotalScore,
		ImportMethod:   types.ImportMethod(fromNullString(rec.ImportMethod)),
		ImportedBy:     fromNullString(rec.ImportedBy),
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
	for i, f := range rec.controlFields() {
		a.Controls.Set(i+1, *f)
	}
	return a
}

type assessmentRepository struct {
	db *gorm.DB
}

func (r *assessmentRepository) Create(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	created := a.Clone()
	if created.ID == "" {
		created.ID = types.NewAssessmentID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now
	created.AssessmentDate = model.DateOf(created.AssessmentDate)

	if err := r.db.WithContext(ctx).Create(assessmentToRecord(created)).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment", goerr.V("id", created.ID))
	}
	return created, nil
}

func (r *assessmentRepository) Get(ctx context.Context, orgID types.OrganizationID, id types.AssessmentID) (*model.Assessment, error) {
	var rec assessmentRecord
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID.String(), id.String()).
		First(&rec).Error
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrNotFound, "assessment not found",
				goerr.V("organization_id", orgID), goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}
	return assessmentToModel(&rec), nil
}

func (r *assessmentRepository) ordered(ctx context.Context, orgID types.OrganizationID) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("organization_id = ?", orgID.String()).
		Order("assessment_date DESC").
		Order("created_at DESC").
		Order("id DESC")
}

func (r *assessmentRepository) GetLatest(ctx context.Context, orgID types.OrganizationID) (*model.Assessment, error) {
	var recs []assessmentRecord
	if err := r.ordered(ctx, orgID).Limit(1).Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to get latest assessment", goerr.V("organization_id", orgID))
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return assessmentToModel(&recs[0]), nil
}

func (r *assessmentRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.Assessment, error) {
	var recs []assessmentRecord
	if err := r.ordered(ctx, orgID).Find(&recs).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments", goerr.V("organization_id", orgID))
	}
	list := make([]*model.Assessment, len(recs))
	for i := range recs {
		list[i] = assessmentToModel(&recs[i])
	}
	return list, nil
}

func (r *assessmentRepository) Update(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	var updated *model.Assessment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing assessmentRecord
		err := tx.Where("organization_id = ? AND id = ?", a.OrganizationID.String(), a.ID.String()).
			First(&existing).Error
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(ErrNotFound, "assessment not found",
					goerr.V("organization_id", a.OrganizationID), goerr.V("id", a.ID))
			}
			return goerr.Wrap(err, "failed to get assessment", goerr.V("id", a.ID))
		}

		updated = a.Clone()
		updated.AssessmentDate = model.DateOf(updated.AssessmentDate)
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()

		// Save writes every column, including NULL controls
		if err := tx.Save(assessmentToRecord(updated)).Error; err != nil {
			return goerr.Wrap(err, "failed to save assessment", goerr.V("id", a.ID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *assessmentRepository) Delete(ctx context.Context, orgID types.OrganizationID, id types.AssessmentID) error {
	res := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID.String(), id.String()).
		Delete(&assessmentRecord{})
	if res.Error != nil {
		return goerr.Wrap(res.Error, "failed to delete assessment", goerr.V("id", id))
	}
	if res.RowsAffected == 0 {
		return goerr.Wrap(ErrNotFound, "assessment not found",
			goerr.V("organization_id", orgID), goerr.V("id", id))
	}
	return nil
}
