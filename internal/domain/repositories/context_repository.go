package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
)

// ContextRepository defines the interface for client context documents
type ContextRepository interface {
	Create(ctx context.Context, doc *entities.ContextDocument) error
	FindByID(ctx context.Context, id int64) (*entities.ContextDocument, error)
	List(ctx context.Context, clientID *int64) ([]entities.ContextRef, error)
	Search(ctx context.Context, query string, clientID *int64, limit int) ([]entities.ContextHit, error)
	Update(ctx context.Context, id int64, changes ContextChanges) error
	Delete(ctx context.Context, id int64) error
}

// ContextChanges lists the fields an update may touch; nil leaves a field as is.
type ContextChanges struct {
	Title       *string
	Content     *string
	Summary     *string
	ContextType *entities.ContextType
	SourceURL   *string
}

// IsEmpty reports whether no field is set.
func (c ContextChanges) IsEmpty() bool {
	return c.Title == nil && c.Content == nil && c.Summary == nil && c.ContextType == nil && c.SourceURL == nil
}
