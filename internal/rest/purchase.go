package rest

import (
	"context"
	"net/http"
	"time"

	"smartPriceMarket/domain"
	"smartPriceMarket/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PurchaseHandler struct {
		validate        *validator.Validate
		purchaseService PurchaseService
		timeout         time.Duration
	}

	PurchaseService interface {
		CompletePurchase(ctx context.Context, userID uint, items []domain.CartItem) (int, error)
		GetPurchases(ctx context.Context, userID uint) ([]domain.Purchase, error)
	}

	CompletePurchaseRequest struct {
		CartItems []domain.CartItem `json:"cart_items" validate:"required,min=1"`
	}
)

func NewPurchaseHandler(purchaseService PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		validate:        validator.New(),
		purchaseService: purchaseService,
		timeout:         10 * time.Second,
	}
}

// POST /api/v1/purchases
func (h *PurchaseHandler) CompletePurchase(c echo.Context) error {
	user_id := c.Get("user_id").(uint)

	var request CompletePurchaseRequest

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validation purchase request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	recorded, err := h.purchaseService.CompletePurchase(ctx, user_id, request.CartItems)
	if err != nil {
		logger.Error("Failed to record purchase", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(map[string]interface{}{
		"message":        "Purchase completed successfully",
		"items_recorded": recorded,
	}))
}

// GET /api/v1/purchases
func (h *PurchaseHandler) GetPurchases(c echo.Context) error {
	user_id := c.Get("user_id").(uint)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	purchases, err := h.purchaseService.GetPurchases(ctx, user_id)
	if err != nil {
		logger.Error("Failed to get purchases", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(purchases))
}
