package cli

import (
	"context"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/cli/config"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/secmon-lab/cisboard/pkg/usecase"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var repoCfg config.Repository
	var file string
	var orgSlug string
	var count int

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Fixtures YAML with organizations, users and assessments",
			Destination: &file,
		},
		&cli.StringFlag{
			Name:        "org",
			Usage:       "Organization slug receiving generated test assessments (without --file)",
			Destination: &orgSlug,
		},
		&cli.IntFlag{
			Name:        "count",
			Usage:       "Number of generated test assessments, one per month back from today",
			Value:       1,
			Destination: &count,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Load fixtures or generate random test assessments",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if file == "" && orgSlug == "" {
				return goerr.Wrap(config.ErrMissingFlag, "either --file or --org is required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err)
				}
			}()

			uc := usecase.New(repo)
			if file != "" {
				return seedFixtures(ctx, uc, file)
			}
			return seedTestAssessments(ctx, uc, orgSlug, count)
		},
	}
}

func seedFixtures(ctx context.Context, uc *usecase.UseCases, path string) error {
	// #nosec G304 - path is expected to be provided by CLI argument
	f, err := os.Open(path)
	if err != nil {
		return goerr.Wrap(err, "failed to open fixtures", goerr.V("path", path))
	}
	defer func() { _ = f.Close() }()

	fixtures, err := usecase.ParseFixtures(f)
	if err != nil {
		return goerr.Wrap(err, "invalid fixtures", goerr.V("path", path))
	}

	result, err := uc.Seed(ctx, fixtures)
	if err != nil {
		return goerr.Wrap(err, "failed to seed fixtures", goerr.V("path", path))
	}
	logging.Default().Info("Seed completed",
		"organizations", result.Organizations,
		"users", result.Users,
		"assessments", result.Assessments,
	)
	return nil
}

func seedTestAssessments(ctx context.Context, uc *usecase.UseCases, slug string, count int) error {
	if count < 1 {
		return goerr.Wrap(config.ErrInvalidConfig, "--count must be positive", goerr.V("count", count))
	}

	org, err := uc.Organization.GetOrganizationBySlug(ctx, slug)
	if err != nil {
		return err
	}

	today := model.DateOf(time.Now())
	for i := range count {
		a, err := uc.Assessment.GenerateTestAssessment(ctx, org.ID, "", today.AddDate(0, -i, 0))
		if err != nil {
			return goerr.Wrap(err, "failed to generate test assessment", goerr.V("slug", slug))
		}
		logging.Default().Info("Generated test assessment",
			"organization", org.Slug,
			"assessment_id", a.ID,
			"date", a.AssessmentDate.Format(model.DateLayout),
			"total_score", a.Mean(),
		)
	}
	return nil
}
