package repository

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies every embedded migration that is not yet recorded in
// schema_migrations, in filename order.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return goerr.Wrap(err, "failed to create schema_migrations")
	}

	files, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return goerr.Wrap(err, "failed to list migrations")
	}
	sort.Strings(files)

	for _, name := range files {
		var applied bool
		if err := db.GetContext(ctx, &applied, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, name); err != nil {
			return goerr.Wrap(err, "failed to check migration", goerr.V("version", name))
		}
		if applied {
			continue
		}

		body, err := migrationFS.ReadFile(name)
		if err != nil {
			return goerr.Wrap(err, "failed to read migration", goerr.V("version", name))
		}

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return goerr.Wrap(err, "failed to begin migration", goerr.V("version", name))
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return goerr.Wrap(err, "failed to apply migration", goerr.V("version", name))
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
			_ = tx.Rollback()
			return goerr.Wrap(err, "failed to record migration", goerr.V("version", name))
		}
		if err := tx.Commit(); err != nil {
			return goerr.Wrap(err, "failed to commit migration", goerr.V("version", name))
		}

		slog.Info("migration applied", "version", name)
	}

	return nil
}
