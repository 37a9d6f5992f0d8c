package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
)

// IntegrationRepository defines the interface for client integration links
type IntegrationRepository interface {
	// Upsert writes the link for (client, kind), replacing any previous one
	Upsert(ctx context.Context, link *entities.IntegrationLink) error

	// Find retrieves the link of one kind for a client
	Find(ctx context.Context, clientID int64, kind entities.IntegrationKind) (*entities.IntegrationLink, error)

	// FindByExternalID retrieves the link of a kind pointing at externalID
	FindByExternalID(ctx context.Context, kind entities.IntegrationKind, externalID string) (*entities.IntegrationLink, error)

	// List returns links with their client preloaded, optionally for one client
	List(ctx context.Context, clientID *int64) ([]entities.IntegrationLink, error)

	// Delete removes the link of one kind for a client
	Delete(ctx context.Context, clientID int64, kind entities.IntegrationKind) error
}

// SeriesRepository defines the interface for meeting series
type SeriesRepository interface {
	Create(ctx context.Context, series *entities.MeetingSeries) error
	List(ctx context.Context, clientID *int64) ([]entities.MeetingSeries, error)
}
