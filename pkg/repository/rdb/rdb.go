// Package rdb stores the dashboard data in a relational database through gorm.
// SQLite is the bundled driver.
package rdb

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a row is missing
var ErrNotFound = interfaces.ErrNotFound

type RDB struct {
	db *gorm.DB

	assessment     *assessmentRepository
	lead           *leadRepository
	preference     *columnPreferenceRepository
	organization   *organizationRepository
	user           *userRepository
	contactMessage *contactMessageRepository
	serviceRequest *serviceRequestRepository
	emailConfig    *emailConfigRepository
}

var _ interfaces.Repository = &RDB{}

type Option func(*config)

type config struct {
	logLevel logger.LogLevel
}

// WithQueryLog enables gorm's query log at the given level
func WithQueryLog(level logger.LogLevel) Option {
	return func(c *config) {
		c.logLevel = level
	}
}

// NewSQLite opens (and creates when missing) a SQLite database at dsn
func NewSQLite(dsn string, opts ...Option) (*RDB, error) {
	cfg := &config{logLevel: logger.Silent}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.logLevel),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("dsn", dsn))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get sql.DB")
	}
	// SQLite serializes writers; a single connection avoids "database is locked"
	sqlDB.SetMaxOpenConns(1)

	return newRDB(db), nil
}

func newRDB(db *gorm.DB) *RDB {
	return &RDB{
		db:             db,
		assessment:     &assessmentRepository{db: db},
		lead:           &leadRepository{db: db},
		preference:     &columnPreferenceRepository{db: db},
		organization:   &organizationRepository{db: db},
		user:           &userRepository{db: db},
		contactMessage: &contactMessageRepository{db: db},
		serviceRequest: &serviceRequestRepository{db: db},
		emailConfig:    &emailConfigRepository{db: db},
	}
}

// Migrate creates or alters the tables of every record type
func (r *RDB) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(Tables()...); err != nil {
		return goerr.Wrap(err, "failed to migrate database")
	}
	return nil
}

// Tables returns the record types managed by Migrate
func Tables() []any {
	return []any{
		&assessmentRecord{},
		&leadRecord{},
		&columnPreferenceRecord{},
		&organizationRecord{},
		&userRecord{},
		&contactMessageRecord{},
		&serviceRequestRecord{},
		&emailConfigRecord{},
	}
}

func (r *RDB) Assessment() interfaces.AssessmentRepository {
	return r.assessment
}

func (r *RDB) Lead() interfaces.LeadRepository {
	return r.lead
}

func (r *RDB) ColumnPreference() interfaces.ColumnPreferenceRepository {
	return r.preference
}

func (r *RDB) Organization() interfaces.OrganizationRepository {
	return r.organization
}

func (r *RDB) User() interfaces.UserRepository {
	return r.user
}

func (r *RDB) ContactMessage() interfaces.ContactMessageRepository {
	return r.contactMessage
}

func (r *RDB) ServiceRequest() interfaces.ServiceRequestRepository {
	return r.serviceRequest
}

func (r *RDB) EmailConfig() interfaces.EmailConfigRepository {
	return r.emailConfig
}

func (r *RDB) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return goerr.Wrap(err, "failed to get sql.DB")
	}
	return sqlDB.Close()
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNullString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
