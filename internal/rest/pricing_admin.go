package rest

import (
	"context"
	"net/http"
	"strconv"

	"smartPriceMarket/domain"

	"github.com/labstack/echo/v4"
)

// PredictionLogReader reads recorded prediction outcomes.
type PredictionLogReader interface {
	FindByUserID(ctx context.Context, userID uint, limit int) ([]domain.PredictionLog, error)
}

type PricingAdminHandler struct {
	logRepo PredictionLogReader
}

func NewPricingAdminHandler(logRepo PredictionLogReader) *PricingAdminHandler {
	return &PricingAdminHandler{
		logRepo: logRepo,
	}
}

// GET /api/v1/admin/pricing/predictions?user_id=123&limit=50
func (h *PricingAdminHandler) GetPredictions(c echo.Context) error {
	ctx := c.Request().Context()

	userIDStr := c.QueryParam("user_id")
	if userIDStr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "user_id is required",
		})
	}
	userID64, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid user_id",
		})
	}

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid limit",
			})
		}
	}

	logs, err := h.logRepo.FindByUserID(ctx, uint(userID64), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user_id":     uint(userID64),
		"predictions": logs,
	})
}
