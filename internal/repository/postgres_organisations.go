package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/pkg/models"
)

// PostgresOrganisationStore is a PostgreSQL implementation of the
// OrganisationStore interface.
type PostgresOrganisationStore struct {
	db *pgxpool.Pool
}

// NewPostgresOrganisationStore creates a new PostgresOrganisationStore.
func NewPostgresOrganisationStore(db *pgxpool.Pool) *PostgresOrganisationStore {
	return &PostgresOrganisationStore{db: db}
}

// GetByDomain retrieves an organisation by its email domain.
func (s *PostgresOrganisationStore) GetByDomain(ctx context.Context, domain string) (*models.Organisation, error) {
	var org models.Organisation
	err := s.db.QueryRow(ctx,
		"SELECT id, name, domain, created_at, updated_at FROM organisations WHERE domain = $1",
		domain).Scan(&org.ID, &org.Name, &org.Domain, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// Create inserts a new organisation, assigning its ID when unset.
func (s *PostgresOrganisationStore) Create(ctx context.Context, org *models.Organisation) error {
	if org.ID == "" {
		org.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now
	_, err := s.db.Exec(ctx,
		"INSERT INTO organisations (id, name, domain, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)",
		org.ID, org.Name, org.Domain, org.CreatedAt, org.UpdatedAt)
	return err
}

// Ping verifies the backing store is reachable.
func (s *PostgresOrganisationStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
