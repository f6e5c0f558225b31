package routes

import (
	"vendora/middleware"
	"vendora/orders"
	"vendora/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	// Intake
	router.POST("/api/order/create/:cartId", rl.Limit(middleware.Authenticate(orders.CreateOrder)))

	// Reads
	router.GET("/api/orders/by/user", middleware.Authenticate(orders.ListOrdersByUser))
	router.GET("/api/orders/by/store/:storeId", middleware.Authenticate(orders.ListOrdersByStore))
	router.GET("/api/orders", middleware.Authenticate(middleware.RequireAdmin(orders.ListAllOrders)))
	router.GET("/api/orders/count", middleware.Authenticate(middleware.RequireAdmin(orders.CountOrders)))
	router.GET("/api/order/:orderId", middleware.Authenticate(orders.GetOrder))

	// State machine
	router.PUT("/api/order/:orderId/cancel", rl.Limit(middleware.Authenticate(orders.CancelByBuyer)))
	router.PUT("/api/order/:orderId/status", rl.Limit(middleware.Authenticate(orders.UpdateStatusByStore)))

	// Return workflow
	router.POST("/api/order/return/:orderId", rl.Limit(middleware.Authenticate(orders.CreateReturnRequest)))
	router.PUT("/api/order/:orderId/return/:requestId", rl.Limit(middleware.Authenticate(orders.ResolveReturnRequest)))
}
