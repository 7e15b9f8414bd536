package usecase

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

// AssessmentUseCase manages CIS-18 assessments of an organization.
// Controls are the source of truth: the stored total is recomputed from them
// whenever they are written.
type AssessmentUseCase struct {
	repo   interfaces.Repository
	now    func() time.Time
	random func(n int) int
}

// NewAssessmentUseCase creates a new AssessmentUseCase instance
func NewAssessmentUseCase(repo interfaces.Repository) *AssessmentUseCase {
	return &AssessmentUseCase{
		repo:   repo,
		now:    time.Now,
		random: rand.IntN,
	}
}

// GetLatestAssessment returns the most recent assessment, or nil when the organization has none
func (uc *AssessmentUseCase) GetLatestAssessment(ctx context.Context, orgID types.OrganizationID) (*model.Assessment, error) {
	a, err := uc.repo.Assessment().GetLatest(ctx, orgID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get latest assessment", goerr.V(OrganizationIDKey, orgID))
	}
	return a, nil
}

// ListAssessments returns every assessment of the organization, newest first
func (uc *AssessmentUseCase) ListAssessments(ctx context.Context, orgID types.OrganizationID) ([]*model.Assessment, error) {
	list, err := uc.repo.Assessment().List(ctx, orgID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments", goerr.V(OrganizationIDKey, orgID))
	}
	return list, nil
}

// GetAssessment returns an assessment of the organization
func (uc *AssessmentUseCase) GetAssessment(ctx context.Context, orgID types.OrganizationID, id types.AssessmentID) (*model.Assessment, error) {
	a, err := uc.repo.Assessment().Get(ctx, orgID, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get assessment",
			goerr.V(OrganizationIDKey, orgID), goerr.V(AssessmentIDKey, id))
	}
	return a, nil
}

// CreateAssessment stores a new assessment. The total is derived from the
// controls; a zero AssessmentDate means today.
func (uc *AssessmentUseCase) CreateAssessment(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	rec := a.Clone()
	rec.ID = ""
	if rec.AssessmentDate.IsZero() {
		rec.AssessmentDate = uc.now()
	}
	rec.AssessmentDate = model.DateOf(rec.AssessmentDate)
	rec.TotalScore = cis18.Score(rec.Mean())

	if err := rec.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid assessment", goerr.V(OrganizationIDKey, a.OrganizationID))
	}

	created, err := uc.repo.Assessment().Create(ctx, rec)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment", goerr.V(OrganizationIDKey, a.OrganizationID))
	}

	logging.From(ctx).Info("assessment created",
		"organization_id", created.OrganizationID,
		"assessment_id", created.ID,
		"import_method", created.ImportMethod,
		"total_score", *created.TotalScore,
	)
	return created, nil
}

// UpdateAssessment merges patch into an existing assessment and re-stamps UpdatedAt
func (uc *AssessmentUseCase) UpdateAssessment(ctx context.Context, orgID types.OrganizationID, id types.AssessmentID, patch *model.AssessmentPatch) (*model.Assessment, error) {
	if err := patch.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid assessment patch", goerr.V(AssessmentIDKey, id))
	}

	current, err := uc.repo.Assessment().Get(ctx, orgID, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get assessment",
			goerr.V(OrganizationIDKey, orgID), goerr.V(AssessmentIDKey, id))
	}

	if patch.Apply(current) {
		current.TotalScore = cis18.Score(current.Mean())
	}

	updated, err := uc.repo.Assessment().Update(ctx, current)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update assessment",
			goerr.V(OrganizationIDKey, orgID), goerr.V(AssessmentIDKey, id))
	}
	return updated, nil
}

// DeleteAssessment removes an assessment owned by the organization
func (uc *AssessmentUseCase) DeleteAssessment(ctx context.Context, orgID types.OrganizationID, id types.AssessmentID) error {
	if err := uc.repo.Assessment().Delete(ctx, orgID, id); err != nil {
		return goerr.Wrap(err, "failed to delete assessment",
			goerr.V(OrganizationIDKey, orgID), goerr.V(AssessmentIDKey, id))
	}
	logging.From(ctx).Info("assessment deleted", "organization_id", orgID, "assessment_id", id)
	return nil
}

// GenerateTestAssessment writes an assessment with random scores in steps of 5.
// A zero date means today.
func (uc *AssessmentUseCase) GenerateTestAssessment(ctx context.Context, orgID types.OrganizationID, userID types.UserID, date time.Time) (*model.Assessment, error) {
	a := &model.Assessment{
		OrganizationID: orgID,
		AssessmentDate: date,
		ImportMethod:   types.ImportMethodTest,
		ImportedBy:     userID.String(),
	}
	for n := 1; n <= types.ControlCount; n++ {
		a.Controls.Set(n, cis18.Score(uc.random(21)*5))
	}
	return uc.CreateAssessment(ctx, a)
}
