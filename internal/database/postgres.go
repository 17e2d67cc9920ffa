package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

// NewPool creates a PostgreSQL connection pool and checks it is reachable.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// PgExecutor runs statements on a pgx pool. "?" placeholders are rebound to
// PostgreSQL's $n form.
type PgExecutor struct {
	pool *pgxpool.Pool
}

func NewPgExecutor(pool *pgxpool.Pool) *PgExecutor {
	return &PgExecutor{pool: pool}
}

var _ Executor = (*PgExecutor)(nil)

func (e *PgExecutor) Execute(ctx context.Context, query string, params ...any) (*Result, error) {
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	if !returnsRows(query) {
		tag, err := e.pool.Exec(ctx, query, params...)
		if err != nil {
			return nil, &QueryError{Message: err.Error(), Err: err}
		}
		return &Result{Success: true, Meta: Meta{Changes: tag.RowsAffected()}}, nil
	}

	rows, err := e.pool.Query(ctx, query, params...)
	if err != nil {
		return nil, &QueryError{Message: err.Error(), Err: err}
	}
	out, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, &QueryError{Message: err.Error(), Err: err}
	}

	res := &Result{Success: true, Rows: out}
	if returningRe.MatchString(query) {
		res.Meta.Changes = rows.CommandTag().RowsAffected()
		if isInsert(query) {
			res.Meta.LastRowID = res.LastInsertID()
		}
	}
	return res, nil
}
