package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"smartPriceMarket/business/pricing"
	"smartPriceMarket/domain"
	"smartPriceMarket/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

const pipelineDisabledMessage = "API is not fully functional due to model loading errors. Please check server logs."

type (
	// PricingHandler binds and forwards; required-field semantics live
	// in the pricing service because they depend on the caller type.
	PricingHandler struct {
		pricingService PricingService
		profileService ProfileService
		timeout        time.Duration
	}

	PricingService interface {
		PredictPrice(ctx context.Context, userID uint, req pricing.PredictionRequest) (domain.PredictionResult, error)
		Vocabularies() (map[string][]string, error)
	}

	// ProfileService supplies the stored profile for the options page.
	ProfileService interface {
		GetUserByID(ctx context.Context, id uint) (domain.User, error)
	}

	// PredictPriceRequest mirrors the training-data column names.
	// Pointer fields let required-field checks distinguish absent from
	// zero; which fields are required depends on the caller type.
	PredictPriceRequest struct {
		Age              *int     `json:"Age"`
		Gender           *string  `json:"Gender"`
		City             *string  `json:"City"`
		Occupation       *string  `json:"Occupation"`
		LoyaltyTier      *string  `json:"Loyalty_Tier"`
		UserProductCount *int     `json:"User_Product_Count"`
		ProductCategory  *string  `json:"Product_Category"`
		PurchaseAmount   *float64 `json:"Purchase_Amount"`
		Weather          *string  `json:"Weather"`
		TimeOfDay        *string  `json:"Time_of_Day"`
	}
)

func NewPricingHandler(pricingService PricingService, profileService ProfileService) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
		profileService: profileService,
		timeout:        10 * time.Second,
	}
}

// POST /api/v1/pricing/predict
// Authenticated callers send only the purchase context; guests send the
// full customer profile as well.
func (h *PricingHandler) PredictPrice(c echo.Context) error {
	var req PredictPriceRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind prediction request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	userID, _ := c.Get("user_id").(uint)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.pricingService.PredictPrice(ctx, userID, pricing.PredictionRequest{
		Age:              req.Age,
		Gender:           req.Gender,
		City:             req.City,
		Occupation:       req.Occupation,
		LoyaltyTier:      req.LoyaltyTier,
		UserProductCount: req.UserProductCount,
		ProductCategory:  req.ProductCategory,
		PurchaseAmount:   req.PurchaseAmount,
		Weather:          req.Weather,
		TimeOfDay:        req.TimeOfDay,
	})
	if err != nil {
		return h.mapPipelineError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// GET /api/v1/pricing/options
// Returns the valid values of every categorical column, plus the stored
// profile for authenticated callers.
func (h *PricingHandler) GetOptions(c echo.Context) error {
	vocabularies, err := h.pricingService.Vocabularies()
	if err != nil {
		return h.mapPipelineError(c, err)
	}

	payload := map[string]interface{}{
		"vocabularies": vocabularies,
	}

	if userID, ok := c.Get("user_id").(uint); ok && userID > 0 && h.profileService != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		defer cancel()

		user, err := h.profileService.GetUserByID(ctx, userID)
		if err != nil {
			logger.Error("Failed to load profile for options", err)
			return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to load user profile"})
		}
		payload["profile"] = map[string]interface{}{
			"Age":          user.Age,
			"Gender":       user.Gender,
			"City":         user.City,
			"Occupation":   user.Occupation,
			"Loyalty_Tier": user.LoyaltyTier,
		}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(payload))
}

// mapPipelineError translates the pricing error taxonomy to HTTP.
// Client errors return their own message; server errors stay opaque.
func (h *PricingHandler) mapPipelineError(c echo.Context, err error) error {
	if errors.Is(err, pricing.ErrPipelineDisabled) {
		return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: pipelineDisabledMessage})
	}

	var unseenErr *pricing.UnseenCategoryError
	if errors.As(err, &unseenErr) {
		return c.JSON(http.StatusUnprocessableEntity, ResponseError{Message: unseenErr.Error()})
	}

	var inputErr *pricing.InputError
	if errors.As(err, &inputErr) {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: inputErr.Error()})
	}

	logger.Error("Prediction pipeline failed", err)
	return c.JSON(http.StatusInternalServerError, ResponseError{Message: "error during model prediction pipeline"})
}
