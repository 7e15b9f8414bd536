package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/repository/memory"
	"github.com/secmon-lab/cisboard/pkg/usecase"
)

const fixturesYAML = `
platform_admins:
  - email: root@cisboard.test
    name: Root
    password: platform-admin-password
organizations:
  - name: Acme Corp
    slug: acme
    users:
      - email: admin@acme.test
        role: org_admin
        password: acme-admin-password
      - email: viewer@acme.test
        password: acme-viewer-password
    assessments:
      - date: "2025-03-01"
        controls:
          1: 50
          2: 70
    test_assessments: 3
`

func TestParseFixtures(t *testing.T) {
	f, err := usecase.ParseFixtures(strings.NewReader(fixturesYAML))
	gt.NoError(t, err).Required()
	gt.Array(t, f.PlatformAdmins).Length(1)
	gt.Array(t, f.Organizations).Length(1)
	gt.Value(t, f.Organizations[0].Assessments[0].Controls[2]).Equal(70)
	gt.Value(t, f.Organizations[0].TestAssessments).Equal(3)

	_, err = usecase.ParseFixtures(strings.NewReader("organisations: []\n"))
	gt.Value(t, err).NotNil()
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.New(repo)

	f, err := usecase.ParseFixtures(strings.NewReader(fixturesYAML))
	gt.NoError(t, err).Required()

	result, err := uc.Seed(ctx, f)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Organizations).Equal(1)
	gt.Value(t, result.Users).Equal(3)
	gt.Value(t, result.Assessments).Equal(4)

	org, err := repo.Organization().GetBySlug(ctx, "acme")
	gt.NoError(t, err).Required()
	gt.Value(t, org.Name).Equal("Acme Corp")

	viewer, err := repo.User().GetByEmail(ctx, "viewer@acme.test")
	gt.NoError(t, err).Required()
	gt.Value(t, viewer.Role).Equal(types.UserRoleMember)
	gt.Value(t, viewer.OrganizationID).Equal(org.ID)

	list, err := uc.Assessment.ListAssessments(ctx, org.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, list).Length(4)

	t.Run("second run reuses organizations and users", func(t *testing.T) {
		again, err := uc.Seed(ctx, f)
		gt.NoError(t, err).Required()
		gt.Value(t, again.Organizations).Equal(0)
		gt.Value(t, again.Users).Equal(0)
		gt.Value(t, again.Assessments).Equal(4)
	})

	t.Run("seeded totals are consistent", func(t *testing.T) {
		result, err := uc.ValidateDB(ctx, false)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.HasIssues()).False()
	})
}

func TestSeedRejectsUnknownControl(t *testing.T) {
	f, err := usecase.ParseFixtures(strings.NewReader(`
organizations:
  - name: Beta
    slug: beta
    assessments:
      - date: "2025-01-01"
        controls:
          19: 10
`))
	gt.NoError(t, err).Required()
	_, err = usecase.New(memory.New()).Seed(context.Background(), f)
	gt.Bool(t, usecase.IsInvalidInput(err)).True()
}
