package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
)

const contextRefColumns = "d.id, d.client_id, c.name AS client_name, d.title, d.context_type, d.updated_at"

// contextRepository implements the ContextRepository interface
type contextRepository struct {
	db *gorm.DB
}

// NewContextRepository creates a new context document repository
func NewContextRepository(db *gorm.DB) repositories.ContextRepository {
	return &contextRepository{db: db}
}

// Create inserts a context document
func (r *contextRepository) Create(ctx context.Context, doc *entities.ContextDocument) error {
	err := r.db.WithContext(ctx).Omit("Client").Create(doc).Error
	return translateError(err, ucerrors.ErrClientNotFound)
}

// FindByID retrieves a context document with its client
func (r *contextRepository) FindByID(ctx context.Context, id int64) (*entities.ContextDocument, error) {
	var doc entities.ContextDocument
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("id = ?", id).
		First(&doc).Error
	if err != nil {
		return nil, translateError(err, ucerrors.ErrContextNotFound)
	}
	return &doc, nil
}

// List returns context document references, most recently updated first
func (r *contextRepository) List(ctx context.Context, clientID *int64) ([]entities.ContextRef, error) {
	var refs []entities.ContextRef
	query := r.db.WithContext(ctx).
		Table("client_context d").
		Select(contextRefColumns).
		Joins("JOIN clients c ON c.id = d.client_id")
	if clientID != nil {
		query = query.Where("d.client_id = ?", *clientID)
	}
	err := query.Order("d.updated_at DESC").Order("d.id DESC").Scan(&refs).Error
	if err != nil {
		return nil, translateError(err, ucerrors.ErrContextNotFound)
	}
	return refs, nil
}

// Search ranks context documents by title and content. The preview is the
// document content; callers bound it.
func (r *contextRepository) Search(ctx context.Context, query string, clientID *int64, limit int) ([]entities.ContextHit, error) {
	var filter string
	args := []interface{}{query}
	if clientID != nil {
		filter = "AND d.client_id = ?"
		args = append(args, *clientID)
	}
	args = append(args, limit)

	sql := fmt.Sprintf(`
		WITH q AS (SELECT plainto_tsquery('english', ?) AS query)
		SELECT %s, ts_rank(d.search_vector, q.query) AS score, d.content AS preview
		FROM client_context d
		JOIN clients c ON c.id = d.client_id
		CROSS JOIN q
		WHERE d.search_vector @@ q.query %s
		ORDER BY score DESC, d.updated_at DESC, d.id DESC
		LIMIT ?`, contextRefColumns, filter)

	var rows []struct {
		entities.ContextRef
		Score   float64
		Preview string
	}
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, translateError(err, ucerrors.ErrContextNotFound)
	}

	hits := make([]entities.ContextHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, entities.ContextHit{
			ContextRef: row.ContextRef,
			Preview:    row.Preview,
			Score:      row.Score,
		})
	}
	return hits, nil
}

// Update applies the non-nil fields of changes
func (r *contextRepository) Update(ctx context.Context, id int64, changes repositories.ContextChanges) error {
	updates := map[string]interface{}{
		"updated_at": gorm.Expr("now()"),
	}
	if changes.Title != nil {
		updates["title"] = *changes.Title
	}
	if changes.Content != nil {
		updates["content"] = *changes.Content
	}
	if changes.Summary != nil {
		updates["summary"] = *changes.Summary
	}
	if changes.ContextType != nil {
		updates["context_type"] = string(*changes.ContextType)
	}
	if changes.SourceURL != nil {
		updates["source_url"] = *changes.SourceURL
	}

	res := r.db.WithContext(ctx).
		Model(&entities.ContextDocument{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return translateError(res.Error, ucerrors.ErrContextNotFound)
	}
	if res.RowsAffected == 0 {
		return ucerrors.ErrContextNotFound
	}
	return nil
}

// Delete removes a context document
func (r *contextRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&entities.ContextDocument{}, id)
	if res.Error != nil {
		return translateError(res.Error, ucerrors.ErrContextNotFound)
	}
	if res.RowsAffected == 0 {
		return ucerrors.ErrContextNotFound
	}
	return nil
}
