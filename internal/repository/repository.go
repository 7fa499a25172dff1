package repository

import (
	"context"

	"github.com/mr1hm/water-insights/internal/models"
)

type Filter struct {
	Limit   int
	Offset  int
	Country string
}

type HistoryRepository interface {
	Add(ctx context.Context, r *models.PredictionRecord) error
	GetByID(ctx context.Context, id string) (*models.PredictionRecord, error)
	List(ctx context.Context, opts Filter) ([]models.PredictionRecord, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}
