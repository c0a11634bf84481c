package persistence

import (
	"database/sql"
	"fmt"
	"strings"

	"social-publisher/domain/repository"
	"social-publisher/infrastructure/configuration"
	"social-publisher/infrastructure/logger"
)

const (
	VendorPostgres = "postgres"
	VendorMSSQL    = "mssql"
)

// Store holds the repositories of the configured database vendor.
type Store struct {
	DB          *sql.DB
	Vendor      string
	Posts       repository.IScheduledPost
	Credentials repository.IOAuthCredential
}

// NewStore wraps an open connection with the repositories of vendor.
func NewStore(db *sql.DB, vendor string) (*Store, error) {
	switch strings.ToLower(vendor) {
	case "", VendorPostgres, "postgresql":
		return &Store{DB: db, Vendor: VendorPostgres, Posts: NewScheduledPostRepository(db), Credentials: NewOAuthCredentialRepository(db)}, nil
	case VendorMSSQL, "sqlserver":
		return &Store{DB: db, Vendor: VendorMSSQL, Posts: NewScheduledPostRepositoryMSSQL(db), Credentials: NewOAuthCredentialRepositoryMSSQL(db)}, nil
	default:
		return nil, fmt.Errorf("unsupported database vendor %q", vendor)
	}
}

// OpenStore connects to the configured database and ensures the schema.
func OpenStore(cfg configuration.Database) (*Store, error) {
	var (
		db     *sql.DB
		err    error
		ensure func(*sql.DB) error
	)
	switch strings.ToLower(cfg.Vendor) {
	case VendorMSSQL, "sqlserver":
		db, err = NewMSSQLDB(cfg.Mssql)
		ensure = EnsureSchemaMSSQL
	case "", VendorPostgres, "postgresql":
		db, err = NewPostgreSQLDB(cfg.Psql)
		ensure = EnsureSchema
	default:
		return nil, fmt.Errorf("unsupported database vendor %q", cfg.Vendor)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Vendor, err)
	}
	if err := ensure(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	store, err := NewStore(db, cfg.Vendor)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.GetLogger().WithField("vendor", store.Vendor).Info("Database ready")
	return store, nil
}

func (s *Store) Close() error { return s.DB.Close() }
