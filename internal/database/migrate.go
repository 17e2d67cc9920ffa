package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedMigrations embed.FS

// Dialect selects the migration set.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// MigrationDir returns the embedded directory holding the migrations of d.
func MigrationDir(d Dialect) string {
	if d == DialectPostgres {
		return "migrations/postgres"
	}
	return "migrations/sqlite"
}

// PrepareGoose points goose at the embedded migrations for d.
func PrepareGoose(d Dialect) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(string(d)); err != nil {
		return fmt.Errorf("setting dialect for migrations: %w", err)
	}
	return nil
}

// Migrate applies all pending migrations for d.
func Migrate(db *sql.DB, d Dialect) error {
	if err := PrepareGoose(d); err != nil {
		return err
	}
	if err := goose.Up(db, MigrationDir(d)); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// UpSQL returns the Up sections of every migration for d, in version order,
// with goose annotations removed. D1 has no database/sql driver, so its
// schema is applied by feeding this to the D1 console or wrangler.
func UpSQL(d Dialect) (string, error) {
	dir := MigrationDir(d)
	entries, err := fs.ReadDir(embedMigrations, dir)
	if err != nil {
		return "", fmt.Errorf("reading migrations: %w", err)
	}

	var b strings.Builder
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		raw, err := fs.ReadFile(embedMigrations, path.Join(dir, e.Name()))
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		fmt.Fprintf(&b, "-- %s\n%s\n", e.Name(), upSection(string(raw)))
	}
	return b.String(), nil
}

func upSection(src string) string {
	var out []string
	inUp := false
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-- +goose") {
			switch strings.TrimSpace(strings.TrimPrefix(trimmed, "-- +goose")) {
			case "Up":
				inUp = true
			case "Down":
				inUp = false
			}
			continue
		}
		if inUp {
			out = append(out, line)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n")) + "\n"
}
