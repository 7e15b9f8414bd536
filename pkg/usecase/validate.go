package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// ValidationIssue represents an assessment whose stored total differs from its controls
type ValidationIssue struct {
	OrganizationID types.OrganizationID
	AssessmentID   types.AssessmentID
	AssessmentDate string
	Message        string
	Expected       string
	Actual         string
	Fixed          bool
}

// ValidationResult holds the results of DB validation
type ValidationResult struct {
	Checked int
	Issues  []ValidationIssue
}

// HasIssues returns true if there are any validation issues
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// AddIssue adds a validation issue to the result
func (r *ValidationResult) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
}

// Unfixed returns the number of issues left as they were
func (r *ValidationResult) Unfixed() int {
	n := 0
	for _, issue := range r.Issues {
		if !issue.Fixed {
			n++
		}
	}
	return n
}

// ValidateDB checks that the stored total score of every assessment equals the
// mean of its controls. With fix, drifted totals are rewritten.
func (uc *UseCases) ValidateDB(ctx context.Context, fix bool) (*ValidationResult, error) {
	result := &ValidationResult{}

	orgs, err := uc.repo.Organization().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list organizations")
	}

	for _, org := range orgs {
		list, err := uc.repo.Assessment().List(ctx, org.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list assessments", goerr.V(OrganizationIDKey, org.ID))
		}

		for _, a := range list {
			result.Checked++
			if !a.TotalDrifted() {
				continue
			}

			actual := "<none>"
			if a.TotalScore != nil {
				actual = fmt.Sprint(*a.TotalScore)
			}
			issue := ValidationIssue{
				OrganizationID: org.ID,
				AssessmentID:   a.ID,
				AssessmentDate: a.DateString(),
				Message:        "stored total score differs from the mean of the controls",
				Expected:       fmt.Sprint(a.Mean()),
				Actual:         actual,
			}

			if fix {
				a.TotalScore = cis18.Score(a.Mean())
				if _, err := uc.repo.Assessment().Update(ctx, a); err != nil {
					return nil, goerr.Wrap(err, "failed to fix total score",
						goerr.V(OrganizationIDKey, org.ID), goerr.V(AssessmentIDKey, a.ID))
				}
				issue.Fixed = true
			}
			result.AddIssue(issue)
		}
	}

	return result, nil
}
