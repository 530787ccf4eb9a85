package postgres

import (
	"context"
	"fmt"

	"smartPriceMarket/business/pricing"
	"smartPriceMarket/domain"

	"gorm.io/gorm"
)

type PredictionLogRepository struct {
	DB *gorm.DB
}

var _ pricing.PredictionLogRepository = (*PredictionLogRepository)(nil)

func NewPredictionLogRepository(db *gorm.DB) *PredictionLogRepository {
	return &PredictionLogRepository{DB: db}
}

func (r *PredictionLogRepository) Save(ctx context.Context, entry *domain.PredictionLog) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to save prediction log: %w", err)
	}

	return nil
}

func (r *PredictionLogRepository) FindByUserID(ctx context.Context, userID uint, limit int) ([]domain.PredictionLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = 50
	}

	var entries []domain.PredictionLog
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}
