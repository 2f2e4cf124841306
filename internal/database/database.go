package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/hr-records/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const driverName = "pgx"

// ErrNoRows is returned by Store.Get when the query matched nothing.
var ErrNoRows = sql.ErrNoRows

// DB is the process-wide store session. It is opened once by the command that
// needs it and closed on shutdown.
type DB struct {
	SQL   *sqlx.DB
	ORM   *gorm.DB
	Store *Store
}

// Open connects to postgres, applies the pool settings and verifies the
// connection. The gorm handle shares the same pool.
func Open(cfg internal.DatabaseConfig, lg *slog.Logger) (*DB, error) {
	sqlDB, err := sqlx.Connect(driverName, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	ormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB.DB}), &gorm.Config{
		Logger: NewGormLogger(lg, cfg.SlowQuery),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}

	return &DB{
		SQL:   sqlDB,
		ORM:   ormDB,
		Store: NewStore(sqlDB),
	}, nil
}

func (d *DB) Close() error {
	if d == nil || d.SQL == nil {
		return nil
	}
	return d.SQL.Close()
}

// NewGormLogger routes gorm's own logging through slog.
func NewGormLogger(lg *slog.Logger, slow time.Duration) gormlogger.Interface {
	if lg == nil {
		lg = slog.Default()
	}
	if slow <= 0 {
		slow = time.Second
	}
	return gormlogger.New(
		slog.NewLogLogger(lg.Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             slow,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// Store is the query surface handlers borrow rows through: fetch one, fetch
// all and run a statement. Queries use ? placeholders and are rebound for the
// underlying driver.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Get scans exactly one row into dest. It returns ErrNoRows when nothing matched.
func (s *Store) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	err := s.db.GetContext(ctx, dest, s.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRows
	}
	return err
}

// All scans every row into the slice pointed to by dest.
func (s *Store) All(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return s.db.SelectContext(ctx, dest, s.db.Rebind(query), args...)
}

// Run executes a mutating statement.
func (s *Store) Run(ctx context.Context, query string, args ...interface{}) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	return err
}

// Ping reports whether the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
