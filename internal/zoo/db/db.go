// Package db implements the persistence store of the zoo registry on top
// of GORM. SQLite is the default backend; PostgreSQL is used when configured.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	e "github.com/gartstein/zoo/internal/zoo/errors"
	dbmodels "github.com/gartstein/zoo/internal/zoo/db/models"
	"github.com/gartstein/zoo/internal/zoo/models"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// SQLiteDriverCgo selects github.com/mattn/go-sqlite3.
	SQLiteDriverCgo = "sqlite3"
	// SQLiteDriverPure selects modernc.org/sqlite, which registers itself
	// as "sqlite".
	SQLiteDriverPure = "sqlite"
)

type Repository struct {
	db     *gorm.DB
	policy models.DeletePolicy
}

type Config struct {
	Driver       string
	SQLitePath   string
	SQLiteDriver string

	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns   int
	ConnectRetries uint64

	DeletePolicy models.DeletePolicy
	Logger       *zap.Logger
}

func NewRepository(cfg *Config) (*Repository, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	policy := cfg.DeletePolicy
	if policy == "" {
		policy = models.DeleteKeep
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: unknown delete policy %q", e.ErrInvalidInput, policy)
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(logger)})
	if err != nil {
		closeDialector(dialector)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}

	if cfg.Driver != DriverPostgres {
		// SQLite connections each see their own :memory: database and the
		// application is single user, so one connection is enough.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(dbmodels.All()...); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db, policy: policy}, nil
}

// Connect opens the repository, retrying with exponential backoff while the
// database is not reachable yet.
func Connect(ctx context.Context, cfg *Config) (*Repository, error) {
	var repo *Repository
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), cfg.ConnectRetries),
		ctx,
	)
	err := backoff.Retry(func() error {
		var err error
		repo, err = NewRepository(cfg)
		if err != nil && errors.Is(err, e.ErrInvalidInput) {
			return backoff.Permanent(err)
		}
		if err != nil && cfg.Logger != nil {
			cfg.Logger.Warn("database not ready", zap.Error(err))
		}
		return err
	}, policy)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func dialectorFor(cfg *Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = "zoo.db"
		}
		driverName := cfg.SQLiteDriver
		if driverName == "" {
			driverName = SQLiteDriverCgo
		}
		if driverName != SQLiteDriverCgo && driverName != SQLiteDriverPure {
			return nil, fmt.Errorf("%w: unknown sqlite driver %q", e.ErrInvalidInput, driverName)
		}
		if driverName == SQLiteDriverCgo {
			driverName = cgoDriverName
		}
		return sqlite.New(sqlite.Config{DriverName: driverName, DSN: path}), nil
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		sqlDB, err := openPgx(dsn, cfg.MaxOpenConns)
		if err != nil {
			return nil, err
		}
		return postgres.New(postgres.Config{Conn: sqlDB}), nil
	default:
		return nil, fmt.Errorf("%w: unknown database driver %q", e.ErrInvalidInput, cfg.Driver)
	}
}

// closeDialector releases a pool opened before gorm took it over.
func closeDialector(d gorm.Dialector) {
	if pg, ok := d.(*postgres.Dialector); ok {
		if conn, ok := pg.Conn.(*sql.DB); ok {
			_ = conn.Close()
		}
	}
}

// openPgx opens a pooled PostgreSQL connection through pgx.
func openPgx(dsn string, maxOpen int) (*sql.DB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if maxOpen <= 0 {
		maxOpen = 10
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen / 2)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	return sqlDB, nil
}

func newGormLogger(logger *zap.Logger) gormlogger.Interface {
	return gormlogger.New(
		zap.NewStdLog(logger.Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, policy: r.policy})
	})
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return wrap("exec", result.Error)
	}
	return nil
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// wrap translates driver errors into the registry's error taxonomy.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return e.ErrNotFound
	case errors.Is(err, e.ErrNotFound),
		errors.Is(err, e.ErrInvalidInput),
		errors.Is(err, e.ErrReferenced),
		errors.Is(err, e.ErrStore):
		return err
	default:
		return fmt.Errorf("%w: %s: %w", e.ErrStore, op, err)
	}
}
