package purchase

import (
	"context"
	"errors"
	"fmt"

	"smartPriceMarket/domain"
	"smartPriceMarket/pkg/logger"
)

// PurchaseRepository contract interface
type PurchaseRepository interface {
	CreateBatch(ctx context.Context, purchases []domain.Purchase) error
	FindByUserID(ctx context.Context, userID uint) ([]domain.Purchase, error)
	SumQuantityByUserID(ctx context.Context, userID uint) (int64, error)
}

type purchaseService struct {
	purchaseRepo PurchaseRepository
}

func NewPurchaseService(purchaseRepo PurchaseRepository) *purchaseService {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
	}
}

// CompletePurchase records all cart items for a user. Either every item
// is recorded or none are.
func (s *purchaseService) CompletePurchase(ctx context.Context, userID uint, items []domain.CartItem) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	if userID == 0 {
		return 0, errors.New("invalid user id")
	}
	if len(items) == 0 {
		return 0, errors.New("no cart items provided")
	}

	purchases := make([]domain.Purchase, 0, len(items))
	for _, item := range items {
		price := item.OriginalPrice
		if price == 0 {
			price = item.Price
		}

		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}

		if item.Name == "" || item.Category == "" || price <= 0 || quantity <= 0 {
			return 0, fmt.Errorf("missing product details in cart item '%s': must have name, category, original_price, quantity", item.Name)
		}

		purchases = append(purchases, domain.Purchase{
			UserID:          userID,
			ProductName:     item.Name,
			ProductCategory: item.Category,
			OriginalPrice:   price,
			Quantity:        quantity,
		})
	}

	if err := s.purchaseRepo.CreateBatch(ctx, purchases); err != nil {
		logger.Error("Failed to record purchases", err)
		return 0, fmt.Errorf("failed to record purchase: %w", err)
	}

	logger.Info("Purchase recorded", "user_id", userID, "items", len(purchases))

	return len(purchases), nil
}

// GetPurchases lists a user's purchases, newest first.
func (s *purchaseService) GetPurchases(ctx context.Context, userID uint) ([]domain.Purchase, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	purchases, err := s.purchaseRepo.FindByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to find purchases", err)
		return nil, err
	}

	return purchases, nil
}
