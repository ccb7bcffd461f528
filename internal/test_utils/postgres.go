package test_utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/frankotendo/geolevelup/internal/config"
	"github.com/frankotendo/geolevelup/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const snapshotName = "postgres-test-snapshot"

var (
	containerOnce sync.Once
	container     *postgres.PostgresContainer
	containerCfg  config.Database
	containerErr  error
)

func preparePostgresContainer(ctx context.Context) (*postgres.PostgresContainer, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %v", err)
	}

	return postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithInitScripts(filepath.Join(projectRoot, "dev", "init.sql")),
		postgres.WithDatabase("geolevelup"),
		postgres.WithUsername("test_geolevelup"),
		postgres.WithPassword("test_geolevelup"),
		postgres.BasicWaitStrategies(),
	)
}

func startContainer() {
	ctx := context.Background()

	container, containerErr = preparePostgresContainer(ctx)
	if containerErr != nil {
		return
	}

	host, err := container.Host(ctx)
	if err != nil {
		containerErr = err
		return
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		containerErr = err
		return
	}
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	containerCfg = config.Database{
		Host:   host,
		Port:   port.Int(),
		User:   "test_geolevelup",
		Pass:   "test_geolevelup",
		Name:   "geolevelup",
		Schema: "geolevelup",
	}

	if containerErr = database.Migrate(containerCfg); containerErr != nil {
		return
	}
	containerErr = container.Snapshot(ctx, postgres.WithSnapshotName(snapshotName))
}

// TestWithDB returns a pool connected to a migrated Postgres container. The container is
// shared by all tests of the package and restored to its migrated snapshot after each test.
// Tests are skipped when no container provider (Docker) is available.
func TestWithDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	containerOnce.Do(startContainer)
	if containerErr != nil {
		t.Fatalf("failed to start postgres container: %v", containerErr)
	}

	ctx := context.Background()
	t.Cleanup(func() {
		if err := container.Restore(ctx, postgres.WithSnapshotName(snapshotName)); err != nil {
			t.Errorf("failed to restore postgres snapshot: %v", err)
		}
	})

	pool, err := database.Open(ctx, containerCfg)
	if err != nil {
		t.Fatalf("failed to open database connection: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// findProjectRoot attempts to locate the project root directory
// It looks for .git directory or go.mod file
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if fileExists(filepath.Join(dir, ".git")) || fileExists(filepath.Join(dir, "go.mod")) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root")
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
