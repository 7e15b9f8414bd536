package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/cli/config"
	"github.com/secmon-lab/cisboard/pkg/usecase"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// ErrInconsistentDB is returned when validate leaves issues unfixed
var ErrInconsistentDB = goerr.New("stored total scores are inconsistent")

func cmdValidate() *cli.Command {
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var fix bool

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "fix",
		Usage:       "Rewrite total scores that differ from the mean of their controls",
		Destination: &fix,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the settings file and check stored total scores",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			settings, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}
			logger.Info("Configuration validation passed", "path", appCfg.Path(), "locale", settings.Locale)

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err)
				}
			}()

			uc := usecase.New(repo, settings.Options()...)
			result, err := uc.ValidateDB(ctx, fix)
			if err != nil {
				return goerr.Wrap(err, "DB consistency check failed")
			}

			printValidationReport(os.Stdout, result)

			if n := result.Unfixed(); n > 0 {
				return goerr.Wrap(ErrInconsistentDB, "DB consistency check found issues",
					goerr.V("issues", n), goerr.V("hint", "re-run with --fix"))
			}
			return nil
		},
	}
}

func printValidationReport(w io.Writer, result *usecase.ValidationResult) {
	ok := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed, color.Bold)
	fixed := color.New(color.FgYellow, color.Bold)

	for _, issue := range result.Issues {
		label, c := "DRIFT", bad
		if issue.Fixed {
			label, c = "FIXED", fixed
		}
		_, _ = c.Fprintf(w, "%-5s ", label)
		_, _ = fmt.Fprintf(w, "org=%s assessment=%s date=%s expected=%s actual=%s: %s\n",
			issue.OrganizationID, issue.AssessmentID, issue.AssessmentDate,
			issue.Expected, issue.Actual, issue.Message)
	}

	if !result.HasIssues() {
		_, _ = ok.Fprintf(w, "OK    ")
		_, _ = fmt.Fprintf(w, "%d assessments checked, no issues\n", result.Checked)
		return
	}
	_, _ = fmt.Fprintf(w, "%d assessments checked, %d issues, %d unfixed\n",
		result.Checked, len(result.Issues), result.Unfixed())
}
