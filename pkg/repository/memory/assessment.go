package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

type assessmentRepository struct {
	mu          sync.RWMutex
	assessments map[types.AssessmentID]*model.Assessment
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		assessments: make(map[types.AssessmentID]*model.Assessment),
	}
}

// sortAssessments orders by AssessmentDate, then CreatedAt, then ID, all descending
func sortAssessments(list []*model.Assessment) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.AssessmentDate.Equal(b.AssessmentDate) {
			return a.AssessmentDate.After(b.AssessmentDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

func (r *assessmentRepository) Create(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := a.Clone()
	if created.ID == "" {
		created.ID = types.NewAssessmentID()
	}
	if _, exists := r.assessments[created.ID]; exists {
		return nil, goerr.New("assessment already exists", goerr.V("id", created.ID))
	}
	now := time.Now().UTC()
	created.AssessmentDate = model.DateOf(created.AssessmentDate)
	created.CreatedAt = now
	created.UpdatedAt = now

	r.assessments[created.ID] = created
	return created.Clone(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, orgID types.OrganizationID, id types.AssessmentID) (*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.assessments[id]
	if !exists || a.OrganizationID != orgID {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found",
			goerr.V("organization_id", orgID), goerr.V("id", id))
	}
	return a.Clone(), nil
}

func (r *assessmentRepository) GetLatest(ctx context.Context, orgID types.OrganizationID) (*model.Assessment, error) {
	list, err := r.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *assessmentRepository) List(ctx context.Context, orgID types.OrganizationID) ([]*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*model.Assessment, 0)
	for _, a := range r.assessments {
		if a.OrganizationID == orgID {
			list = append(list, a.Clone())
		}
	}
	sortAssessments(list)
	return list, nil
}

func (r *assessmentRepository) Update(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.assessments[a.ID]
	if !exists || existing.OrganizationID != a.OrganizationID {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found",
			goerr.V("organization_id", a.OrganizationID), goerr.V("id", a.ID))
	}

	updated := a.Clone()
	updated.AssessmentDate = model.DateOf(updated.AssessmentDate)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.assessments[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *assessmentRepository) Delete(ctx context.Context, orgID types.OrganizationID, id types.AssessmentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.assessments[id]
	if !exists || a.OrganizationID != orgID {
		return goerr.Wrap(ErrNotFound, "assessment not found",
			goerr.V("organization_id", orgID), goerr.V("id", id))
	}

	delete(r.assessments, id)
	return nil
}
