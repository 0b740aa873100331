package helper

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDatabaseName     = "database"
	testDatabaseUser     = "user"
	testDatabasePassword = "password"
)

// MustStartPostgresContainer starts a pgvector enabled Postgres container.
// It returns the teardown function and the mapped port.
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"pgvector/pgvector:pg16",
		postgres.WithDatabase(testDatabaseName),
		postgres.WithUsername(testDatabaseUser),
		postgres.WithPassword(testDatabasePassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", NewError("start postgres container", err)
	}

	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return container.Terminate, "", NewError("mapped port", err)
	}

	return container.Terminate, port.Port(), nil
}

// SetTestDatabaseConfigEnvs sets the database env vars for a test container on port
func SetTestDatabaseConfigEnvs(t *testing.T, port string) {
	t.Setenv("COREFER_DB_HOST", "localhost")
	t.Setenv("COREFER_DB_PORT", port)
	t.Setenv("COREFER_DB_DATABASE", testDatabaseName)
	t.Setenv("COREFER_DB_USERNAME", testDatabaseUser)
	t.Setenv("COREFER_DB_PASSWORD", testDatabasePassword)
	t.Setenv("COREFER_DB_SCHEMA", "public")
	t.Setenv("COREFER_DB_SSLMODE", "disable")
}
