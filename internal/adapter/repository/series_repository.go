package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-archive/internal/domain/entities"
	"github.com/johnquangdev/meeting-archive/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
)

// seriesRepository implements the SeriesRepository interface
type seriesRepository struct {
	db *gorm.DB
}

// NewSeriesRepository creates a new meeting series repository
func NewSeriesRepository(db *gorm.DB) repositories.SeriesRepository {
	return &seriesRepository{db: db}
}

func (r *seriesRepository) Create(ctx context.Context, series *entities.MeetingSeries) error {
	err := r.db.WithContext(ctx).Omit("Client").Create(series).Error
	return translateError(err, ucerrors.ErrClientNotFound)
}

func (r *seriesRepository) List(ctx context.Context, clientID *int64) ([]entities.MeetingSeries, error) {
	var series []entities.MeetingSeries
	query := r.db.WithContext(ctx).Preload("Client").Order("name ASC")
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}
	if err := query.Find(&series).Error; err != nil {
		return nil, translateError(err, ucerrors.ErrSeriesNotFound)
	}
	return series, nil
}
