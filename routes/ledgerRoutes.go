package routes

import (
	"vendora/ledger"
	"vendora/middleware"
	"vendora/notify"

	"github.com/julienschmidt/httprouter"
)

func AddLedgerRoutes(router *httprouter.Router) {
	router.GET("/api/transactions/by/user", middleware.Authenticate(ledger.ListUserTransactions))
	router.GET("/api/transactions/by/store/:storeId", middleware.Authenticate(ledger.ListStoreTransactions))
	router.GET("/api/transactions", middleware.Authenticate(middleware.RequireAdmin(ledger.ListAllTransactions)))

	router.GET("/api/wallet", middleware.Authenticate(ledger.GetWallet))
	router.GET("/api/wallet/store/:storeId", middleware.Authenticate(ledger.GetStoreWallet))
}

func AddNotifyRoutes(router *httprouter.Router, hub *notify.Hub) {
	router.GET("/api/ws", middleware.Authenticate(hub.WebSocketHandler()))
	router.GET("/api/notifications", middleware.Authenticate(notify.ListNotifications))
	router.PUT("/api/notifications/:id/read", middleware.Authenticate(notify.MarkRead))
}
