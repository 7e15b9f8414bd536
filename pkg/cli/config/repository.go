package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/repository/firestore"
	"github.com/secmon-lab/cisboard/pkg/repository/memory"
	"github.com/secmon-lab/cisboard/pkg/repository/rdb"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm/logger"
)

// Repository backends
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend          string
	projectID        string
	databaseID       string
	collectionPrefix string
	sqlitePath       string
	queryLog         bool
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (memory, firestore or sqlite)",
			Category:    "Repository",
			Value:       BackendSQLite,
			Sources:     cli.EnvVars("CISBOARD_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("CISBOARD_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("CISBOARD_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix for every Firestore collection name",
			Category:    "Repository",
			Sources:     cli.EnvVars("CISBOARD_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.collectionPrefix,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "SQLite database file (created when missing)",
			Category:    "Repository",
			Value:       "cisboard.db",
			Sources:     cli.EnvVars("CISBOARD_SQLITE_PATH"),
			Destination: &r.sqlitePath,
		},
		&cli.BoolFlag{
			Name:        "sql-query-log",
			Usage:       "Log every SQL statement",
			Category:    "Repository",
			Sources:     cli.EnvVars("CISBOARD_SQL_QUERY_LOG"),
			Destination: &r.queryLog,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("firestore-project-id", r.projectID),
		slog.String("firestore-database-id", r.databaseID),
		slog.String("firestore-collection-prefix", r.collectionPrefix),
		slog.String("sqlite-path", r.sqlitePath),
	)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// ProjectID returns the Firestore project ID
func (r *Repository) ProjectID() string {
	return r.projectID
}

// DatabaseID returns the Firestore database ID
func (r *Repository) DatabaseID() string {
	return r.databaseID
}

// CollectionPrefix returns the Firestore collection prefix
func (r *Repository) CollectionPrefix() string {
	return r.collectionPrefix
}

// OpenSQLite opens the configured SQLite database without migrating it
func (r *Repository) OpenSQLite() (*rdb.RDB, error) {
	var opts []rdb.Option
	if r.queryLog {
		opts = append(opts, rdb.WithQueryLog(logger.Info))
	}
	db, err := rdb.NewSQLite(r.sqlitePath, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite repository")
	}
	return db, nil
}

// Configure initializes and returns a repository based on the configured backend.
// SQLite databases are migrated on open. The caller is responsible for calling Close()
// on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case BackendFirestore:
		if r.projectID == "" {
			return nil, goerr.Wrap(ErrMissingFlag, "firestore-project-id is required when using firestore backend",
				goerr.V(FlagKey, "firestore-project-id"))
		}
		var opts []firestore.Option
		if r.collectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.collectionPrefix))
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
			"collection_prefix", r.collectionPrefix,
		)
		return repo, nil

	case BackendSQLite:
		db, err := r.OpenSQLite()
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, goerr.Wrap(err, "failed to migrate sqlite repository")
		}
		logging.Default().Info("Using SQLite repository", "path", r.sqlitePath)
		return db, nil

	case BackendMemory:
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "unknown repository backend", goerr.V("backend", r.backend))
	}
}
