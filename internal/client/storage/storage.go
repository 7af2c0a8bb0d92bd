// Package storage opens the local sqlite database, runs migrations and
// exposes the repositories built on top of it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/folkz/storeadmin/internal/client/migrations"
	"github.com/folkz/storeadmin/internal/dbx"
	"github.com/folkz/storeadmin/internal/filex"
	"github.com/folkz/storeadmin/internal/client/repositories/fetchcache"
	"github.com/folkz/storeadmin/internal/client/repositories/metadata"
)

type Repositories struct {
	Metadata metadata.Repository
	Cache    fetchcache.Repository
	DB       *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InTx runs fn with repositories bound to a single transaction, committing
// on success and rolling back on error. Used where two stores must change
// together, e.g. swapping the selected store and invalidating its caches.
func (r *Repositories) InTx(ctx context.Context, fn func(tx Repositories) error) error {
	return dbx.WithTx(ctx, r.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(Repositories{
			Metadata: metadata.NewSQLiteRepository(tx),
			Cache:    fetchcache.NewSQLiteRepository(tx),
			DB:       r.DB,
		})
	})
}

// Open opens (creating if necessary) the database at dsn, applies pending
// migrations and returns the repository set.
func Open(ctx context.Context, dsn string) (*Repositories, error) {
	if _, err := filex.EnsureParentDir(dsn); err != nil {
		return nil, fmt.Errorf("preparing database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Repositories{
		Metadata: metadata.NewSQLiteRepository(db),
		Cache:    fetchcache.NewSQLiteRepository(db),
		DB:       db,
	}, nil
}
