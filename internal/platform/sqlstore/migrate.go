package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migration commands accepted by Migrate.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateStatus  = "status"
	MigrateVersion = "version"
)

// goose keeps its dialect, base FS and logger in package state.
var gooseMu sync.Mutex

// gooseLogger adapts the goose logger interface. Progress lines go to out so
// that "migrate status" prints for the user; failures go to slog.
type gooseLogger struct {
	out io.Writer
	log *slog.Logger
}

// Printf implements goose.Logger.
func (l *gooseLogger) Printf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	if l.out != nil {
		_, _ = fmt.Fprintln(l.out, trimNewline(msg))
		return
	}
	l.log.Info(trimNewline(msg))
}

// Fatalf implements goose.Logger. Unlike the standard Fatalf it does not exit;
// the error is returned to the caller.
func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(trimNewline(fmt.Sprintf(format, v...)))
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func migrationSource(db *sqlx.DB) (dialect, dir string) {
	if isPostgres(db) {
		return "postgres", "migrations/postgres"
	}
	return "sqlite3", "migrations/sqlite"
}

// Migrate runs a goose command against db using the embedded migrations for its
// dialect. Progress and status output is written to out; a nil out sends it to
// the structured log instead.
func Migrate(ctx context.Context, db *sqlx.DB, command string, out io.Writer) error {
	log := slog.Default().With(
		slog.String("component", "migrations"),
		slog.String("command", command),
		slog.String("correlation_id", uuid.New().String()),
	)

	gooseMu.Lock()
	defer gooseMu.Unlock()

	dialect, dir := migrationSource(db)
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(&gooseLogger{out: out, log: log})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect %s: %w", dialect, err)
	}

	start := time.Now()
	log.Debug("starting migration operation", slog.String("dialect", dialect))

	var err error
	switch command {
	case MigrateUp:
		err = goose.UpContext(ctx, db.DB, dir)
	case MigrateDown:
		err = goose.DownContext(ctx, db.DB, dir)
	case MigrateStatus:
		err = goose.StatusContext(ctx, db.DB, dir)
	case MigrateVersion:
		var version int64
		version, err = goose.GetDBVersionContext(ctx, db.DB)
		if err == nil && out != nil {
			_, err = fmt.Fprintf(out, "version: %d\n", version)
		}
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}

	if err != nil {
		log.Error("migration failed", slog.String("error", err.Error()))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Debug("migration operation completed",
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// EnsureSchema applies all pending migrations, logging progress instead of printing it.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	return Migrate(ctx, db, MigrateUp, nil)
}
