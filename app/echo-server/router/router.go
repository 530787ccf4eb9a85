package router

import (
	"smartPriceMarket/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, selfOrAdmin echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.GET("/email-verification/:code", handler.VerifyEmail)
	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.POST("/logout", handler.Logout, authRequired)
	users.GET("/:id", handler.GetUserByID, authRequired, selfOrAdmin)
	users.PUT("/:id", handler.UpdateUser, authRequired, selfOrAdmin)
}

func SetPurchaseRoutes(api *echo.Group, handler *rest.PurchaseHandler, authRequired echo.MiddlewareFunc) {
	purchases := api.Group("/purchases", authRequired)
	purchases.POST("", handler.CompletePurchase)
	purchases.GET("", handler.GetPurchases)
}

func SetPricingRoutes(api *echo.Group, handler *rest.PricingHandler, optionalAuth echo.MiddlewareFunc) {
	pricing := api.Group("/pricing", optionalAuth)
	pricing.POST("/predict", handler.PredictPrice)
	pricing.GET("/options", handler.GetOptions)
}

func SetPricingAdminRoutes(api *echo.Group, handler *rest.PricingAdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/pricing", authRequired, adminOnly)
	admin.GET("/predictions", handler.GetPredictions)
}
