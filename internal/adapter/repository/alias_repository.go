package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
)

// aliasRepository implements the AliasRepository interface
type aliasRepository struct {
	db *gorm.DB
}

// NewAliasRepository creates a new alias repository
func NewAliasRepository(db *gorm.DB) repositories.AliasRepository {
	return &aliasRepository{db: db}
}

// Upsert maps alias to clientID
func (r *aliasRepository) Upsert(ctx context.Context, alias string, clientID int64) error {
	err := upsertAlias(r.db.WithContext(ctx), alias, clientID)
	return translateError(err, ucerrors.ErrClientNotFound)
}

// FindByAlias retrieves an alias with its client
func (r *aliasRepository) FindByAlias(ctx context.Context, alias string) (*entities.ClientAlias, error) {
	var a entities.ClientAlias
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("alias = ?", entities.NormalizeAlias(alias)).
		First(&a).Error
	if err != nil {
		return nil, translateError(err, ucerrors.ErrAliasNotFound)
	}
	return &a, nil
}

// List returns aliases ordered by alias
func (r *aliasRepository) List(ctx context.Context, clientID *int64) ([]entities.ClientAlias, error) {
	var aliases []entities.ClientAlias
	query := r.db.WithContext(ctx).Preload("Client").Order("alias ASC")
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}
	if err := query.Find(&aliases).Error; err != nil {
		return nil, translateError(err, ucerrors.ErrAliasNotFound)
	}
	return aliases, nil
}

// Delete removes an alias
func (r *aliasRepository) Delete(ctx context.Context, alias string) error {
	res := r.db.WithContext(ctx).
		Where("alias = ?", entities.NormalizeAlias(alias)).
		Delete(&entities.ClientAlias{})
	if res.Error != nil {
		return translateError(res.Error, ucerrors.ErrAliasNotFound)
	}
	if res.RowsAffected == 0 {
		return ucerrors.ErrAliasNotFound
	}
	return nil
}
