// Package store persists accepted leads through the sales pipeline.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/webgap/leadscout/internal/config"
	"github.com/webgap/leadscout/internal/leads"
)

// ErrNotFound is returned when a pipeline record does not exist.
var ErrNotFound = eris.New("store: record not found")

// Record is an accepted lead tracked through the pipeline.
type Record struct {
	ID        string              `json:"id"`
	Lead      leads.QualifiedLead `json:"lead"`
	Status    leads.Status        `json:"status"`
	Notes     string              `json:"notes"`
	Email     string              `json:"email,omitempty"`
	Website   string              `json:"website,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ListFilter specifies criteria for listing pipeline records.
type ListFilter struct {
	Status leads.Status
	Limit  int
}

// Store defines the persistence interface for the lead pipeline.
type Store interface {
	CreateLead(ctx context.Context, lead leads.QualifiedLead) (*Record, error)
	GetLead(ctx context.Context, id string) (*Record, error)
	ListLeads(ctx context.Context, filter ListFilter) ([]Record, error)
	UpdateStatus(ctx context.Context, id string, status leads.Status) error
	UpdateNotes(ctx context.Context, id, notes string) error
	UpdateContact(ctx context.Context, id, email, website string) error
	DeleteLead(ctx context.Context, id string) error
	HasPlace(ctx context.Context, placeID string) (bool, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
