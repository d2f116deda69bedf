//go:build integration

// Package dbtest starts a throwaway Postgres for integration tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"rfid-backoffice/internal/database"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

const (
	image    = "postgres:16-alpine"
	user     = "postgres"
	password = "postgres"
	dbName   = "rfid"
)

// Postgres is a migrated database running in a container.
type Postgres struct {
	DSN string
	DB  *gorm.DB
}

// Start runs a Postgres container for the duration of t and migrates the schema.
func Start(t *testing.T) *Postgres {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     user,
				"POSTGRES_PASSWORD": password,
				"POSTGRES_DB":       dbName,
			},
			// The entrypoint restarts the server once after init.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port.Port(), user, password, dbName)
	db, err := database.Open(dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return &Postgres{DSN: dsn, DB: db}
}

// Reset empties every table between subtests.
func (p *Postgres) Reset(t *testing.T) {
	t.Helper()
	err := p.DB.Exec(`TRUNCATE users, "Places", "Zones", checklist, "Products", "Products_labels",
		"Items", "Movements", "People", inventories, inventory_items, audit_logs RESTART IDENTITY`).Error
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}
