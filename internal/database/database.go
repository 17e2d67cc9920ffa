// Package database implements the parameterized SQL client used by the
// contact pipeline. Statements are written once with "?" placeholders and
// run against one of three backends selected by configuration: the
// Cloudflare D1 REST API, a local SQLite file, or PostgreSQL.
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrNotConfigured is returned when the credentials a backend needs are absent.
var ErrNotConfigured = errors.New("database: not configured")

// QueryError reports a statement rejected by the store. For the REST
// backend StatusCode is the HTTP status and Message the remote error text.
type QueryError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *QueryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("database query failed (status %d): %s", e.StatusCode, e.Message)
	}
	return "database query failed: " + e.Message
}

func (e *QueryError) Unwrap() error { return e.Err }

// Meta carries the write metadata of a statement.
type Meta struct {
	LastRowID int64
	Changes   int64
}

// Result is the outcome of a single statement.
type Result struct {
	Success bool
	Rows    []map[string]any
	Meta    Meta
}

// LastInsertID returns the identifier assigned to an inserted row, taken
// from the write metadata or, for backends without it, from the "id"
// column of the first returned row.
func (r *Result) LastInsertID() int64 {
	if r == nil {
		return 0
	}
	if r.Meta.LastRowID != 0 {
		return r.Meta.LastRowID
	}
	if len(r.Rows) > 0 {
		if id, ok := Int64(r.Rows[0]["id"]); ok {
			return id
		}
	}
	return 0
}

// Executor runs one parameterized statement.
type Executor interface {
	Execute(ctx context.Context, query string, params ...any) (*Result, error)
}

// IsConfigured reports whether e can reach its store. Backends that may be
// built without credentials expose a Configured method; others are always
// configured once constructed.
func IsConfigured(e Executor) bool {
	if e == nil {
		return false
	}
	if c, ok := e.(interface{ Configured() bool }); ok {
		return c.Configured()
	}
	return true
}

var returningRe = regexp.MustCompile(`(?i)\bRETURNING\b`)

// returnsRows reports whether a statement produces a result set.
func returnsRows(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	for _, prefix := range []string{"SELECT", "WITH", "PRAGMA", "VALUES"} {
		if strings.HasPrefix(q, prefix) {
			return true
		}
	}
	return returningRe.MatchString(query)
}

func isInsert(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "INSERT")
}

// Int64 converts a column value as returned by any backend to int64.
func Int64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, false
			}
			return int64(f), true
		}
		return i, true
	case []byte:
		i, err := strconv.ParseInt(string(n), 10, 64)
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

// String converts a column value to string. NULL becomes "".
func String(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case json.Number:
		return s.String()
	case time.Time:
		return s.UTC().Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

// Bool converts a column value to bool. SQLite and D1 store booleans as
// integers.
func Bool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "1" || strings.EqualFold(b, "true")
	}
	n, ok := Int64(v)
	return ok && n != 0
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
}

// Time converts a column value to time.Time. Unparseable values give the
// zero time.
func Time(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string, []byte:
		s := String(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC()
			}
		}
	}
	return time.Time{}
}
