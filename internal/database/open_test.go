package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secunit/backend/internal/config"
)

func TestOpen_D1WithoutCredentialsIsUnconfigured(t *testing.T) {
	exec, closeFn, err := Open(context.Background(), config.Database{Driver: config.DriverD1})
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &D1Client{}, exec)
	assert.False(t, IsConfigured(exec))
}

func TestOpen_PostgresWithoutURLIsUnconfigured(t *testing.T) {
	exec, closeFn, err := Open(context.Background(), config.Database{Driver: config.DriverPostgres})
	require.NoError(t, err)
	defer closeFn()

	assert.False(t, IsConfigured(exec))
	_, err = exec.Execute(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOpen_SQLite(t *testing.T) {
	exec, closeFn, err := Open(context.Background(), config.Database{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "open.db"),
	})
	require.NoError(t, err)
	defer closeFn()

	assert.True(t, IsConfigured(exec))
	res, err := exec.Execute(context.Background(), "SELECT COUNT(*) AS n FROM contacts")
	require.NoError(t, err)
	n, ok := Int64(res.Rows[0]["n"])
	assert.True(t, ok)
	assert.Equal(t, int64(0), n)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), config.Database{Driver: "mysql"})
	assert.Error(t, err)
}
