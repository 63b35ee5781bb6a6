package main

import (
	"context"

	"github.com/studydev/studydev/internal/platform/sqlstore"
)

func runMigrate(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "migrate")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	command := sqlstore.MigrateUp
	switch fs.NArg() {
	case 0:
	case 1:
		command = fs.Arg(0)
	default:
		return usageErrorf("expected at most one migration command")
	}

	switch command {
	case sqlstore.MigrateUp, sqlstore.MigrateDown, sqlstore.MigrateStatus, sqlstore.MigrateVersion:
	default:
		return usageErrorf("unknown migration command %q", command)
	}

	app, err := newApplication(ctx, c, openOptions{skipSchema: true, clock: c.clock})
	if err != nil {
		return err
	}
	defer app.cleanup()

	return sqlstore.Migrate(ctx, app.db, command, c.stdout)
}
