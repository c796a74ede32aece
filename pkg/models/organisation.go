package models

import (
	"time"
)

// Organisation is a registered NDIS provider organisation. Console users are
// resolved to their organisation by email domain; organisations are
// auto-provisioned on first login.
type Organisation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
