package cli

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/cli/config"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/export"
	"github.com/secmon-lab/cisboard/pkg/usecase"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
	"github.com/secmon-lab/cisboard/pkg/view"
	"github.com/urfave/cli/v3"
)

const gcsScheme = "gs://"

func cmdExport() *cli.Command {
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var orgSlug string
	var format string
	var output string
	var columns []string
	var sortBy string
	var dir string
	var filter string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "org",
			Usage:       "Organization slug",
			Required:    true,
			Destination: &orgSlug,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "Export format (csv or xlsx)",
			Value:       string(export.FormatCSV),
			Destination: &format,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output path, '-' for stdout, or gs://bucket/object (default: cis18-assessment-<today>.<format>)",
			Destination: &output,
		},
		&cli.StringSliceFlag{
			Name:        "column",
			Usage:       "Visible column, repeatable (default: every column)",
			Destination: &columns,
		},
		&cli.StringFlag{
			Name:        "sort",
			Usage:       "Sort column",
			Value:       string(view.ColumnDate),
			Destination: &sortBy,
		},
		&cli.StringFlag{
			Name:        "dir",
			Usage:       "Sort direction (asc or desc)",
			Value:       string(view.SortDesc),
			Destination: &dir,
		},
		&cli.StringFlag{
			Name:        "filter",
			Usage:       "Case-insensitive substring filter over the visible cells",
			Destination: &filter,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "export",
		Usage: "Export the assessment table of an organization as CSV or Excel",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			visible := types.AllColumns()
			if len(columns) > 0 {
				visible = make([]types.ColumnID, 0, len(columns))
				for _, s := range columns {
					col, err := types.ParseColumnID(s)
					if err != nil {
						return err
					}
					visible = append(visible, col)
				}
			}

			settings, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load settings")
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

			uc := usecase.New(repo, settings.Options()...)
			org, err := uc.Organization.GetOrganizationBySlug(ctx, orgSlug)
			if err != nil {
				return err
			}
			list, err := uc.Assessment.ListAssessments(ctx, org.ID)
			if err != nil {
				return err
			}

			q := view.ParseTableQuery(url.Values{"sort": {sortBy}, "dir": {dir}, "q": {filter}})
			table := view.BuildTable(list, visible, q, uc.Locale())

			var buf bytes.Buffer
			if err := export.Write(&buf, f, table, uc.Locale()); err != nil {
				return goerr.Wrap(err, "failed to render export")
			}

			if output == "" {
				output = export.Filename(f, time.Now())
			}
			if err := writeOutput(ctx, output, f, &buf); err != nil {
				return err
			}
			logging.Default().Info("Assessments exported",
				"organization", org.Slug,
				"format", f,
				"rows", len(table.Rows),
				"output", output,
			)
			return nil
		},
	}
}

func writeOutput(ctx context.Context, output string, f export.Format, r io.Reader) error {
	if output == "-" {
		if _, err := io.Copy(os.Stdout, r); err != nil {
			return goerr.Wrap(err, "failed to write export to stdout")
		}
		return nil
	}
	if rest, ok := strings.CutPrefix(output, gcsScheme); ok {
		bucket, object, found := strings.Cut(rest, "/")
		if !found || bucket == "" || object == "" {
			return goerr.Wrap(config.ErrInvalidConfig, "output must be gs://bucket/object", goerr.V("output", output))
		}
		return uploadGCS(ctx, bucket, object, f.ContentType(), r)
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	file, err := os.Create(output)
	if err != nil {
		return goerr.Wrap(err, "failed to create export file", goerr.V("path", output))
	}
	if _, err := io.Copy(file, r); err != nil {
		_ = file.Close()
		return goerr.Wrap(err, "failed to write export file", goerr.V("path", output))
	}
	if err := file.Close(); err != nil {
		return goerr.Wrap(err, "failed to close export file", goerr.V("path", output))
	}
	return nil
}

func uploadGCS(ctx context.Context, bucket, object, contentType string, r io.Reader) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to create cloud storage client")
	}
	defer func() {
		if err := client.Close(); err != nil {
			logging.Default().Error("failed to close cloud storage client", "error", err)
		}
	}()

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to upload export", goerr.V("bucket", bucket), goerr.V("object", object))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finish upload", goerr.V("bucket", bucket), goerr.V("object", object))
	}
	return nil
}
