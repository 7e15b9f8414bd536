package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/cli/config"
	"github.com/secmon-lab/cisboard/pkg/repository/firestore"
	"github.com/secmon-lab/cisboard/pkg/repository/rdb"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm/schema"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var dryRun bool

	flags := repoCfg.Flags()
	flags = append(flags, &cli.BoolFlag{
		Name:        "dry-run",
		Usage:       "Preview changes without applying",
		Destination: &dryRun,
	})

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create Firestore indexes or SQLite tables",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			logger.Info("Migrate configuration", "repository", repoCfg, "dryRun", dryRun)

			switch repoCfg.Backend() {
			case config.BackendFirestore:
				return migrateFirestore(ctx, &repoCfg, dryRun)
			case config.BackendSQLite:
				return migrateSQLite(ctx, &repoCfg, dryRun)
			case config.BackendMemory:
				logger.Info("Memory backend needs no migration")
				return nil
			default:
				return goerr.Wrap(config.ErrInvalidBackend, "unknown repository backend",
					goerr.V("backend", repoCfg.Backend()))
			}
		},
	}
}

func migrateSQLite(ctx context.Context, repoCfg *config.Repository, dryRun bool) error {
	logger := logging.Default()
	if dryRun {
		logger.Info("Dry run mode - tables that would be created or altered", "count", len(sqliteTables()))
		for _, name := range sqliteTables() {
			logger.Info("Migration step", "table", name)
		}
		return nil
	}

	db, err := repoCfg.OpenSQLite()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close sqlite repository", "error", err)
		}
	}()

	if err := db.Migrate(ctx); err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}
	logger.Info("Migrations applied successfully")
	return nil
}

func migrateFirestore(ctx context.Context, repoCfg *config.Repository, dryRun bool) error {
	logger := logging.Default()
	if repoCfg.ProjectID() == "" {
		return goerr.Wrap(config.ErrMissingFlag, "firestore-project-id is required",
			goerr.V(config.FlagKey, "firestore-project-id"))
	}

	indexConfig := getIndexConfig(repoCfg.CollectionPrefix())

	client, err := fireconf.NewClient(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID())
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client")
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close fireconf client", "error", err.Error())
		}
	}()

	if dryRun {
		logger.Info("Dry run mode - previewing changes")
		plan, err := client.GetMigrationPlan(ctx, indexConfig)
		if err != nil {
			return goerr.Wrap(err, "failed to create migration plan")
		}

		if len(plan.Steps) == 0 {
			logger.Info("No changes required")
			return nil
		}

		for _, step := range plan.Steps {
			logger.Info("Migration step",
				"collection", step.Collection,
				"operation", step.Operation,
				"description", step.Description,
				"destructive", step.Destructive)
		}
		return nil
	}

	logger.Info("Applying migrations")
	if err := client.Migrate(ctx, indexConfig); err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}
	logger.Info("Migrations applied successfully")
	return nil
}

// getIndexConfig returns the composite indexes needed by the Firestore queries
func getIndexConfig(prefix string) *fireconf.Config {
	byOrgNewestFirst := fireconf.Index{
		Fields: []fireconf.IndexField{
			{Path: "organization_id", Order: fireconf.OrderAscending},
			{Path: "created_at", Order: fireconf.OrderDescending},
		},
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: firestore.CollectionName(prefix, firestore.CollectionAssessments),
				Indexes: []fireconf.Index{
					// List/GetLatest: organization_id ASC, assessment_date DESC, created_at DESC, id DESC
					{
						Fields: []fireconf.IndexField{
							{Path: "organization_id", Order: fireconf.OrderAscending},
							{Path: "assessment_date", Order: fireconf.OrderDescending},
							{Path: "created_at", Order: fireconf.OrderDescending},
							{Path: firestore.DocumentIDPath, Order: fireconf.OrderDescending},
						},
					},
				},
			},
			{
				Name:    firestore.CollectionName(prefix, firestore.CollectionLeads),
				Indexes: []fireconf.Index{byOrgNewestFirst},
			},
			{
				Name:    firestore.CollectionName(prefix, firestore.CollectionServiceRequests),
				Indexes: []fireconf.Index{byOrgNewestFirst},
			},
			{
				Name: firestore.CollectionName(prefix, firestore.CollectionUsers),
				Indexes: []fireconf.Index{
					// ListByOrganization: organization_id ASC, email ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "organization_id", Order: fireconf.OrderAscending},
							{Path: "email", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}

func sqliteTables() []string {
	var names []string
	for _, t := range rdb.Tables() {
		if tabler, ok := t.(schema.Tabler); ok {
			names = append(names, tabler.TableName())
		}
	}
	return names
}
