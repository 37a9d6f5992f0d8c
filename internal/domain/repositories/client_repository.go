package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
)

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	// Create inserts a new client
	Create(ctx context.Context, client *entities.Client) error

	// FindByID retrieves a client by its ID
	FindByID(ctx context.Context, id int64) (*entities.Client, error)

	// FindByName retrieves a client by canonical name, case-insensitively
	FindByName(ctx context.Context, name string) (*entities.Client, error)

	// GetOrCreate returns the client with the given name, creating it when
	// absent. The bool reports whether a row was created.
	GetOrCreate(ctx context.Context, name string) (*entities.Client, bool, error)

	// List returns every client with its meeting count, ordered by name
	List(ctx context.Context) ([]entities.ClientSummary, error)

	// Suggest returns up to limit clients whose name contains fragment
	Suggest(ctx context.Context, fragment string, limit int) ([]entities.Client, error)

	// Delete removes a client. Context documents, aliases and links cascade;
	// meetings and series are detached.
	Delete(ctx context.Context, id int64) error

	// Merge moves everything owned by source onto target, aliases the source
	// name to target and deletes source, all in one transaction.
	Merge(ctx context.Context, source, target *entities.Client) (*MergeResult, error)

	// Rename changes the canonical name and aliases the old name to the
	// same client, in one transaction.
	Rename(ctx context.Context, client *entities.Client, newName string) error

	// All returns every client, ordered by ID
	All(ctx context.Context) ([]entities.Client, error)
}

// MergeResult counts what a merge reassigned.
type MergeResult struct {
	MeetingsMoved int64
	ContextMoved  int64
	SeriesMoved   int64
	LinksMoved    int64
	LinksDropped  int64
	AliasesMoved  int64
}

// AliasRepository defines the interface for client alias data access
type AliasRepository interface {
	// Upsert maps alias to clientID, overwriting an existing mapping
	Upsert(ctx context.Context, alias string, clientID int64) error

	// FindByAlias retrieves an alias by its (normalized) string
	FindByAlias(ctx context.Context, alias string) (*entities.ClientAlias, error)

	// List returns aliases with their client preloaded, optionally for one client
	List(ctx context.Context, clientID *int64) ([]entities.ClientAlias, error)

	// Delete removes an alias
	Delete(ctx context.Context, alias string) error
}
