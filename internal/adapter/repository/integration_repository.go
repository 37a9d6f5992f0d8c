package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
)

// integrationRepository implements the IntegrationRepository interface
type integrationRepository struct {
	db *gorm.DB
}

// NewIntegrationRepository creates a new integration link repository
func NewIntegrationRepository(db *gorm.DB) repositories.IntegrationRepository {
	return &integrationRepository{db: db}
}

// Upsert writes the link for (client, kind)
func (r *integrationRepository) Upsert(ctx context.Context, link *entities.IntegrationLink) error {
	err := r.db.WithContext(ctx).
		Omit("Client").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "client_id"}, {Name: "integration_type"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"external_id":   gorm.Expr("EXCLUDED.external_id"),
				"external_name": gorm.Expr("EXCLUDED.external_name"),
				"metadata":      gorm.Expr("EXCLUDED.metadata"),
				"updated_at":    gorm.Expr("now()"),
			}),
		}).
		Create(link).Error
	return translateError(err, ucerrors.ErrClientNotFound)
}

// Find retrieves the link of one kind for a client
func (r *integrationRepository) Find(ctx context.Context, clientID int64, kind entities.IntegrationKind) (*entities.IntegrationLink, error) {
	var link entities.IntegrationLink
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("client_id = ? AND integration_type = ?", clientID, kind).
		First(&link).Error
	if err != nil {
		return nil, translateError(err, ucerrors.ErrLinkNotFound)
	}
	return &link, nil
}

// FindByExternalID retrieves the link of a kind pointing at externalID
func (r *integrationRepository) FindByExternalID(ctx context.Context, kind entities.IntegrationKind, externalID string) (*entities.IntegrationLink, error) {
	var link entities.IntegrationLink
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("integration_type = ? AND external_id = ?", kind, externalID).
		First(&link).Error
	if err != nil {
		return nil, translateError(err, ucerrors.ErrLinkNotFound)
	}
	return &link, nil
}

// List returns links ordered by client then kind
func (r *integrationRepository) List(ctx context.Context, clientID *int64) ([]entities.IntegrationLink, error) {
	var links []entities.IntegrationLink
	query := r.db.WithContext(ctx).Preload("Client").Order("client_id ASC").Order("integration_type ASC")
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}
	if err := query.Find(&links).Error; err != nil {
		return nil, translateError(err, ucerrors.ErrLinkNotFound)
	}
	return links, nil
}

// Delete removes the link of one kind for a client
func (r *integrationRepository) Delete(ctx context.Context, clientID int64, kind entities.IntegrationKind) error {
	res := r.db.WithContext(ctx).
		Where("client_id = ? AND integration_type = ?", clientID, kind).
		Delete(&entities.IntegrationLink{})
	if res.Error != nil {
		return translateError(res.Error, ucerrors.ErrLinkNotFound)
	}
	if res.RowsAffected == 0 {
		return ucerrors.ErrLinkNotFound
	}
	return nil
}
