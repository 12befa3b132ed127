//go:build integration

package db

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ferdiebergado/susi/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Setup starts a disposable postgres container, applies the migrations and returns a
// connection to it. The container is removed when the test ends.
func Setup(t *testing.T) *sql.DB {
	t.Helper()

	ctx := t.Context()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("susi_test"),
		postgres.WithUsername("susi"),
		postgres.WithPassword("susi"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	conn, err := NewConnection(ctx, config.Default().DB, dsn)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := Migrate(ctx, conn); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return conn
}
