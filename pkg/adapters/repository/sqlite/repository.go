package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Local SQLite driver

	"github.com/wadjakorntonsri/interne/pkg/adapters/repository/sqlite/migrations"
	"github.com/wadjakorntonsri/interne/pkg/core/clock"
	"github.com/wadjakorntonsri/interne/pkg/core/schedule"
	"github.com/wadjakorntonsri/interne/pkg/logger"
	"github.com/wadjakorntonsri/interne/pkg/ports"
)

type SQLiteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

type Option func(*SQLiteRepository)

// WithClock sets the clock used to stamp rows and to stand in for
// unreadable timestamps.
func WithClock(c clock.Clock) Option {
	return func(r *SQLiteRepository) { r.clock = c }
}

func NewSQLiteRepository(dbURL string, opts ...Option) (*SQLiteRepository, error) {
	driverName := "sqlite"
	dsn := dbURL
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	} else {
		dsn = localDSN(dbURL)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driverName, err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	if driverName == "sqlite" {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}

	r := &SQLiteRepository{db: db, clock: clock.System{}}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// localDSN turns on foreign keys and a busy timeout for modernc sqlite.
func localDSN(dbURL string) string {
	if strings.Contains(dbURL, "_pragma=") {
		return dbURL
	}
	sep := "?"
	if strings.Contains(dbURL, "?") {
		sep = "&"
	}
	return dbURL + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// SchemaVersion reports the latest applied migration.
func (r *SQLiteRepository) SchemaVersion(ctx context.Context) (int64, error) {
	return goose.GetDBVersionContext(ctx, r.db)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// instant reads a stored timestamp. Unreadable values become the current
// time so one bad row cannot break a listing.
func (r *SQLiteRepository) instant(raw, column, id string) time.Time {
	t, ok := schedule.ParseInstant(raw, r.clock.Now())
	if !ok {
		logger.Warn("unreadable timestamp, using current time",
			zap.String("column", column),
			zap.String("id", id),
			zap.String("value", raw),
		)
	}
	return t
}

func (r *SQLiteRepository) now() string {
	return schedule.FormatInstant(r.clock.Now())
}

func stamp(t time.Time) string {
	return schedule.FormatInstant(t)
}

func nullableStamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return stamp(*t)
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// Ensure interface compliance
var _ ports.Repository = (*SQLiteRepository)(nil)
