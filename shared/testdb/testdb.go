// Package testdb opens throwaway SQLite databases carrying the production schema.
// It is imported from tests only.
package testdb

//nolint:revive
import (
	"fmt"
	"io/fs"
	"shareit/infras/postgres"
	"shareit/migrations"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// New returns a connection to a fresh in-memory database with every up migration applied.
// The database is closed when the test ends.
func New(t testing.TB) *postgres.Connection {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return &postgres.Connection{Read: db, Write: db}
}

// Migrate applies the embedded up migrations in version order.
func Migrate(db *sqlx.DB) error {
	files, err := fs.Glob(migrations.FS, migrations.Dir+"/*.up.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}

	slices.Sort(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", strings.TrimPrefix(file, migrations.Dir+"/"), err)
		}
	}

	return nil
}
