// Package db contains the sqlite schema, row types, and queries used by the
// storage package.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite" // sqlite sql.DB driver initialization
)

// MemoryPath opens a private in-memory database. Each pooled connection to it
// would be a distinct database, so the pool is pinned to a single connection.
const MemoryPath = ":memory:"

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrations embed.FS

// Open initializes a SQLite DB connection pool to the specified dbPath. If the
// database file does not exist, it attempts to create it, and then migrates the
// database to match the current state expected of the system. At most maxConns
// connections are held open at once.
func Open(ctx context.Context, logger *slog.Logger, dbPath string, maxConns int) (*sql.DB, error) {
	if dbPath == MemoryPath {
		maxConns = 1
	} else if _, err := os.Stat(dbPath); err != nil {
		const userOnlyDirPerms = 0o700
		if err = os.MkdirAll(filepath.Dir(dbPath), userOnlyDirPerms); err != nil {
			return nil, fmt.Errorf("failed to create db parent directory: %w", err)
		}
	}

	dsn := dbPath
	if strings.ContainsRune(dsn, '?') {
		dsn += "&"
	} else {
		dsn += "?"
	}
	dsn += "_time_format=sqlite"

	registerHook.Do(registerPragmas)

	handle, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create DB handler: %w", err)
	}
	if maxConns < 1 {
		maxConns = 1
	}
	handle.SetMaxOpenConns(maxConns)
	handle.SetMaxIdleConns(maxConns)
	if err = handle.PingContext(ctx); err != nil {
		_ = handle.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	if err = migrate(ctx, logger.With(slog.String("db", dbPath)), handle, false); err != nil {
		_ = handle.Close()
		return nil, err
	}
	return handle, nil
}

// registerHook guards the driver-wide connection hook, which must not be set
// while other connections are being opened.
var registerHook sync.Once

func registerPragmas() {
	sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, _ string) error {
		const initSQL = `
		pragma foreign_keys = on; -- post.author_id must reference a user
		pragma busy_timeout = 5000; -- wait on competing writers instead of failing
		pragma journal_mode = WAL; -- allow concurrent readers alongside a writer
		pragma synchronous = normal; -- don't wait for fsync except on checkpointing
		pragma temp_store = memory; -- temporary indices
		`
		_, err := conn.ExecContext(context.Background(), initSQL, nil)
		return err
	})
}

// Reset rolls back every migration and applies them again, leaving an empty
// database with the current schema.
func Reset(ctx context.Context, logger *slog.Logger, handle *sql.DB) error {
	return migrate(ctx, logger, handle, true)
}

func migrate(ctx context.Context, logger *slog.Logger, handle *sql.DB, reset bool) error {
	fsys, err := fs.Sub(migrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, handle, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if reset {
		results, err := provider.DownTo(ctx, 0)
		logMigrations(ctx, logger, results)
		if err != nil {
			return fmt.Errorf("failed to roll back schema: %w", err)
		}
	}
	results, err := provider.Up(ctx)
	logMigrations(ctx, logger, results)
	if err != nil {
		return fmt.Errorf("failed to migrate DB: %w", err)
	}
	return nil
}

func logMigrations(ctx context.Context, logger *slog.Logger, results []*goose.MigrationResult) {
	for _, res := range results {
		logger.DebugContext(ctx, "applied migration",
			slog.Int64("version", res.Source.Version),
			slog.String("direction", res.Direction),
			slog.Duration("duration", res.Duration),
		)
	}
}
