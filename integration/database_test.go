//go:build database

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// exerciseBackend runs a build against the given backend for both run history
// and the warehouse, then checks status and clears everything.
func exerciseBackend(t *testing.T, backend, connStr string) {
	t.Helper()
	dir := t.TempDir()
	sources := writeExportSources(t, dir)
	env := []string{
		"FITSTAR_RUNS_BACKEND=" + backend,
		"FITSTAR_RUNS_DB_CONNECT=" + connStr,
		"FITSTAR_WAREHOUSE_BACKEND=" + backend,
		"FITSTAR_WAREHOUSE_DB_CONNECT=" + connStr,
	}

	_, err := runFitstar(t, dir, env, "runs", "clear")
	require.NoError(t, err)

	_, err = runFitstar(t, dir, env, "warehouse", "migrate")
	require.NoError(t, err)

	_, err = runFitstar(t, dir, env, "build", "--source", sources, "-o", filepath.Join(dir, "out"))
	require.NoError(t, err)

	output, err := runFitstar(t, dir, env, "runs", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "Total Runs: 1")

	output, err = runFitstar(t, dir, env, "warehouse", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "fact_heart_rate: 1 rows")
	assert.Contains(t, output, "fact_sleep: 2 rows")

	// A second build replaces the warehouse contents
	_, err = runFitstar(t, dir, env, "build", "--source", sources, "-o", filepath.Join(dir, "out"))
	require.NoError(t, err)
	output, err = runFitstar(t, dir, env, "warehouse", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "fact_activity: 3 rows")

	_, err = runFitstar(t, dir, env, "runs", "export", "--output-file", filepath.Join(dir, "history"))
	require.NoError(t, err)

	_, err = runFitstar(t, dir, env, "warehouse", "clear")
	require.NoError(t, err)
	_, err = runFitstar(t, dir, env, "runs", "clear")
	require.NoError(t, err)
}

// TestFitstarWithMySQL tests the fitstar CLI with a MySQL backend.
func TestFitstarWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "fitstar",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/fitstar?parseTime=true", host, port.Port())
	exerciseBackend(t, "mysql", connStr)
}

// TestFitstarWithPostgres tests the fitstar CLI with a PostgreSQL backend.
func TestFitstarWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseBackend(t, "postgresql", connStr)
}
