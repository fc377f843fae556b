package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open connects to the store described by databaseURL and prepares its schema.
//
//	postgres://… or postgresql://…   PostgreSQL through pgx
//	sqlite://path/to/file.db          SQLite through gorm
//	file://path/to/store.json         a single JSON file
func Open(ctx context.Context, databaseURL string) (Store, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		if err := RunMigrations(databaseURL); err != nil {
			return nil, err
		}
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("cannot connect to db: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("cannot reach db: %w", err)
		}
		slog.Info("db: connected to postgres")
		return NewPostgres(pool), nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		store, err := OpenSQLite(strings.TrimPrefix(databaseURL, "sqlite://"))
		if err != nil {
			return nil, err
		}
		return store, nil
	case strings.HasPrefix(databaseURL, "file://"):
		store, err := OpenJSONFile(strings.TrimPrefix(databaseURL, "file://"))
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unsupported database url scheme: %q", schemeOf(databaseURL))
}

func schemeOf(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return ""
	}
	return scheme
}
