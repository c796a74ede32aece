package repository

import (
	"context"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/pkg/models"
)

// OrganisationStore is an interface for storing and retrieving provider
// organisations. Organisations are resolved from the email domain of the
// signed-in operator and auto-provisioned on first sight.
type OrganisationStore interface {
	// GetByDomain retrieves an organisation by its email domain.
	GetByDomain(ctx context.Context, domain string) (*models.Organisation, error)
	// Create inserts a new organisation, assigning its ID when unset.
	Create(ctx context.Context, org *models.Organisation) error
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
