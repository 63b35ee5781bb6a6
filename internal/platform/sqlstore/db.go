package sqlstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	"github.com/studydev/studydev/internal/config"
	"github.com/studydev/studydev/internal/redact"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Supported values of config.DatabaseConfig.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// driverNames maps configured drivers to registered database/sql driver names.
var driverNames = map[string]string{
	DriverSQLite:   "sqlite",
	DriverPostgres: "pgx",
}

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// isPostgres reports whether db talks to PostgreSQL.
func isPostgres(db interface{ DriverName() string }) bool {
	return sqlx.BindType(db.DriverName()) == sqlx.DOLLAR
}

// Open connects to the configured database and verifies the connection.
// SQLite files are created on demand, including their parent directory.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	driverName, ok := driverNames[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	log := slog.Default().With(
		slog.String("component", "sqlstore"),
		slog.String("driver", cfg.Driver),
		slog.String("dsn", redact.DSN(cfg.DSN)),
	)

	dsn := cfg.DSN
	if cfg.Driver == DriverSQLite {
		var err error
		if dsn, err = sqliteDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// One connection serialises writers and keeps ":memory:" databases alive.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		log.Error("database ping failed", slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Debug("database connection established")
	return db, nil
}

// sqliteDSN turns a file path or ":memory:" into a modernc DSN with foreign
// keys enforced and a busy timeout.
func sqliteDSN(dsn string) (string, error) {
	const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"

	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + pragmas, nil
}
