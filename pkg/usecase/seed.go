package usecase

import (
	"context"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/domain/model/cis18"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
	"gopkg.in/yaml.v3"
)

// Fixtures is the YAML document loaded by the seed command
type Fixtures struct {
	PlatformAdmins []FixtureUser         `yaml:"platform_admins"`
	Organizations  []FixtureOrganization `yaml:"organizations"`
}

// FixtureOrganization is an organization with its accounts and assessments
type FixtureOrganization struct {
	Name            string              `yaml:"name"`
	Slug            string              `yaml:"slug"`
	Users           []FixtureUser       `yaml:"users"`
	Assessments     []FixtureAssessment `yaml:"assessments"`
	TestAssessments int                 `yaml:"test_assessments"`
}

// FixtureUser is an account to create
type FixtureUser struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Password string `yaml:"password" masq:"secret"`
}

// FixtureAssessment is an assessment with explicit scores keyed by control number
type FixtureAssessment struct {
	Date     string      `yaml:"date"`
	Controls map[int]int `yaml:"controls"`
}

// SeedResult counts the records written by Seed
type SeedResult struct {
	Organizations int
	Users         int
	Assessments   int
}

// ParseFixtures decodes a fixtures YAML document
func ParseFixtures(r io.Reader) (*Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, goerr.Wrap(err, "failed to decode fixtures")
	}
	return &f, nil
}

// Seed writes fixtures. Organizations matched by slug and users matched by email
// are reused, so running it twice only adds assessments.
func (uc *UseCases) Seed(ctx context.Context, f *Fixtures) (*SeedResult, error) {
	result := &SeedResult{}

	for _, u := range f.PlatformAdmins {
		created, err := uc.seedUser(ctx, u, types.UserRolePlatformAdmin, "")
		if err != nil {
			return nil, err
		}
		if created {
			result.Users++
		}
	}

	for _, fo := range f.Organizations {
		org, err := uc.repo.Organization().GetBySlug(ctx, fo.Slug)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to look up organization", goerr.V("slug", fo.Slug))
		}
		if org == nil {
			if org, err = uc.Organization.CreateOrganization(ctx, fo.Name, fo.Slug); err != nil {
				return nil, err
			}
			result.Organizations++
		}

		for _, u := range fo.Users {
			role := types.UserRole(u.Role)
			if role == "" {
				role = types.UserRoleMember
			}
			created, err := uc.seedUser(ctx, u, role, org.ID)
			if err != nil {
				return nil, err
			}
			if created {
				result.Users++
			}
		}

		for _, fa := range fo.Assessments {
			date, err := model.ParseDate(fa.Date)
			if err != nil {
				return nil, goerr.Wrap(err, "invalid fixture assessment date", goerr.V("slug", fo.Slug))
			}
			a := &model.Assessment{
				OrganizationID: org.ID,
				AssessmentDate: date,
				ImportMethod:   types.ImportMethodSeed,
				ImportedBy:     types.ImportMethodSeed.String(),
			}
			for n, v := range fa.Controls {
				if n < 1 || n > types.ControlCount {
					return nil, goerr.Wrap(model.ErrOutOfRange, "unknown control in fixture",
						goerr.V("slug", fo.Slug), goerr.V("control", n))
				}
				a.Controls.Set(n, cis18.Score(v))
			}
			if _, err := uc.Assessment.CreateAssessment(ctx, a); err != nil {
				return nil, err
			}
			result.Assessments++
		}

		// one generated assessment per month going back from today
		today := model.DateOf(time.Now())
		for i := range fo.TestAssessments {
			date := today.AddDate(0, -i, 0)
			if _, err := uc.Assessment.GenerateTestAssessment(ctx, org.ID, "", date); err != nil {
				return nil, err
			}
			result.Assessments++
		}
	}

	logging.From(ctx).Info("fixtures loaded",
		"organizations", result.Organizations,
		"users", result.Users,
		"assessments", result.Assessments,
	)
	return result, nil
}

func (uc *UseCases) seedUser(ctx context.Context, u FixtureUser, role types.UserRole, orgID types.OrganizationID) (bool, error) {
	existing, err := uc.repo.User().GetByEmail(ctx, model.NormalizeEmail(u.Email))
	if err != nil {
		return false, goerr.Wrap(err, "failed to look up fixture user", goerr.V("email", u.Email))
	}
	if existing != nil {
		return false, nil
	}

	if _, err := uc.User.CreateUser(ctx, CreateUserInput{
		Email:          u.Email,
		Name:           u.Name,
		Password:       u.Password,
		Role:           role,
		OrganizationID: orgID,
	}); err != nil {
		return false, err
	}
	return true, nil
}
