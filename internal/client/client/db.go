package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophvote/internal/client/migrations"
	"github.com/dmitrijs2005/gophvote/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// DSN turns a database file path into a modernc.org/sqlite DSN. Writers wait
// for each other instead of failing with SQLITE_BUSY, and transactions take
// the write lock up front so read-modify-write cycles serialize.
func DSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local database at path and brings its schema up to
// date. Missing parent directories are created.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	if !strings.HasPrefix(path, "file:") && !strings.Contains(path, "?") {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return db, nil
}
