package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/pkg/models"
)

func TestPostgresOrganisationStore(t *testing.T) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2)),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	store := NewPostgresOrganisationStore(pool)

	_, err = pool.Exec(ctx, `CREATE TABLE organisations (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		domain TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Create and GetByDomain", func(t *testing.T) {
		org := &models.Organisation{
			Name:   "sunrise-care.com.au",
			Domain: "sunrise-care.com.au",
		}

		err := store.Create(ctx, org)
		assert.NoError(t, err)
		assert.NotEmpty(t, org.ID)

		retrieved, err := store.GetByDomain(ctx, "sunrise-care.com.au")
		assert.NoError(t, err)
		assert.Equal(t, org.ID, retrieved.ID)
		assert.Equal(t, org.Name, retrieved.Name)
		assert.Equal(t, org.Domain, retrieved.Domain)
	})

	t.Run("GetByDomain unknown domain", func(t *testing.T) {
		_, err := store.GetByDomain(ctx, "nobody.example")
		assert.Error(t, err)
	})

	t.Run("Create rejects duplicate domain", func(t *testing.T) {
		err := store.Create(ctx, &models.Organisation{
			Name:   "sunrise-care.com.au",
			Domain: "sunrise-care.com.au",
		})
		assert.Error(t, err)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}
