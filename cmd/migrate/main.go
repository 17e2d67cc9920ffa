package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/secunit/backend/internal/config"
	"github.com/secunit/backend/internal/database"
	"github.com/secunit/backend/internal/logging"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  up (default)   apply all pending migrations
  status         print the state of every migration
  down           roll back the most recent migration
  reset          roll back every migration, then apply all again
  sql            print the schema for DB_DRIVER=d1 (apply with wrangler)`)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load(".env", "../.env")
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	if cmd == "sql" {
		schema, err := database.UpSQL(database.DialectSQLite)
		if err != nil {
			logging.Fatal("render schema failed", "error", err)
		}
		fmt.Print(schema)
		return
	}

	db, dialect := open(cfg.Database)
	defer db.Close()

	if err := database.PrepareGoose(dialect); err != nil {
		logging.Fatal("prepare migrations failed", "error", err)
	}
	goose.SetLogger(slogLogger{})
	dir := database.MigrationDir(dialect)

	switch cmd {
	case "up":
		err = goose.Up(db, dir)
	case "status":
		err = goose.Status(db, dir)
	case "down":
		err = goose.Down(db, dir)
	case "reset":
		if err = goose.Reset(db, dir); err == nil {
			err = goose.Up(db, dir)
		}
	default:
		usage()
	}
	if err != nil {
		logging.Fatal("migration failed", "command", cmd, "error", err)
	}
	slog.Info("migration command completed", "command", cmd, "driver", cfg.Database.Driver)
}

func open(cfg config.Database) (*sql.DB, database.Dialect) {
	var (
		db      *sql.DB
		dialect database.Dialect
		err     error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		dialect = database.DialectSQLite
		db, err = goose.OpenDBWithDriver(string(dialect), cfg.SQLitePath)
	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			logging.Fatal("DATABASE_URL is required for DB_DRIVER=postgres")
		}
		dialect = database.DialectPostgres
		db, err = goose.OpenDBWithDriver(string(dialect), cfg.DatabaseURL)
	default:
		logging.Fatal("D1 has no SQL driver; run `migrate sql` and apply the output with wrangler", "driver", cfg.Driver)
	}
	if err != nil {
		logging.Fatal("connect failed", "driver", cfg.Driver, "error", err)
	}
	return db, dialect
}

// slogLogger routes goose output through slog.
type slogLogger struct{}

func (slogLogger) Printf(format string, v ...any) {
	slog.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (slogLogger) Fatalf(format string, v ...any) {
	logging.Fatal(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
