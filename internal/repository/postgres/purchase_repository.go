package postgres

import (
	"context"
	"fmt"

	"smartPriceMarket/domain"

	"gorm.io/gorm"
)

type PurchaseRepository struct {
	DB *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{
		DB: db,
	}
}

// CreateBatch records all items of one checkout, or none of them.
func (r *PurchaseRepository) CreateBatch(ctx context.Context, purchases []domain.Purchase) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range purchases {
			if err := tx.Create(&purchases[i]).Error; err != nil {
				return fmt.Errorf("failed to save purchase: %w", err)
			}
		}
		return nil
	})
}

func (r *PurchaseRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Purchase, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var purchases []domain.Purchase
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("purchase_date DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}

	return purchases, nil
}

// SumQuantityByUserID is the User_Product_Count feature source for
// authenticated predictions.
func (r *PurchaseRepository) SumQuantityByUserID(ctx context.Context, userID uint) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var total int64
	err := r.DB.WithContext(ctx).
		Model(&domain.Purchase{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}
