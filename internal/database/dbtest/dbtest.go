// Package dbtest starts throwaway PostgreSQL instances for tests.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"mediplus/internal/config"
	"mediplus/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const defaultImage = "postgres:16-alpine"

// Sizing is the pool configuration used for test databases.
var Sizing = config.DatabaseConfig{
	MaxConnections:  8,
	MinConnections:  1,
	MaxConnLifetime: 300,
}

// Postgres starts a container, applies the MediPlus schema and returns a pool.
// Both are released through t.Cleanup. The test is skipped under -short.
// MEDIPLUS_TEST_PG_IMAGE overrides the image.
func Postgres(t testing.TB) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container skipped in short mode")
	}

	ctx := context.Background()
	image := os.Getenv("MEDIPLUS_TEST_PG_IMAGE")
	if image == "" {
		image = defaultImage
	}

	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase("mediplus"),
		postgres.WithUsername("mediplus"),
		postgres.WithPassword("mediplus"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres dsn: %v", err)
	}

	pool, err := database.NewPoolFromURL(ctx, dsn, Sizing, zerolog.Nop())
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}
	return pool
}
