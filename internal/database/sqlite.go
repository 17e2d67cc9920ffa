package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLExecutor runs statements on a database/sql connection through sqlx.
// It stands in for the platform-native D1 binding when the server runs
// next to its own SQLite file.
type SQLExecutor struct {
	db *sqlx.DB
}

// NewSQLExecutor wraps an open connection.
func NewSQLExecutor(db *sqlx.DB) *SQLExecutor {
	return &SQLExecutor{db: db}
}

var _ Executor = (*SQLExecutor)(nil)

// OpenSQLite opens (or creates) the SQLite file at path and applies all
// pending migrations.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("connecting to sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := Migrate(db.DB, DialectSQLite); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Execute runs query with positional parameters.
func (e *SQLExecutor) Execute(ctx context.Context, query string, params ...any) (*Result, error) {
	query = e.db.Rebind(query)

	if !returnsRows(query) {
		r, err := e.db.ExecContext(ctx, query, params...)
		if err != nil {
			return nil, &QueryError{Message: err.Error(), Err: err}
		}
		res := &Result{Success: true}
		if isInsert(query) {
			res.Meta.LastRowID, _ = r.LastInsertId()
		}
		res.Meta.Changes, _ = r.RowsAffected()
		return res, nil
	}

	rows, err := e.db.QueryxContext(ctx, query, params...)
	if err != nil {
		return nil, &QueryError{Message: err.Error(), Err: err}
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, &QueryError{Message: err.Error(), Err: err}
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Message: err.Error(), Err: err}
	}

	res := &Result{Success: true, Rows: out}
	if returningRe.MatchString(query) {
		res.Meta.Changes = int64(len(out))
		if isInsert(query) {
			res.Meta.LastRowID = res.LastInsertID()
		}
	}
	return res, nil
}
