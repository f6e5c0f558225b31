package routes

import (
	"net/http"

	"vendora/cart"
	"vendora/catalog"
	"vendora/filemgr"
	"vendora/middleware"
	"vendora/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddCartRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/cart", rl.Limit(middleware.Authenticate(cart.AddToCart)))
	router.GET("/api/cart", middleware.Authenticate(cart.GetCarts))
	router.PUT("/api/cart/item/:itemId", middleware.Authenticate(cart.UpdateCartItem))
	router.DELETE("/api/cart/item/:itemId", middleware.Authenticate(cart.DeleteCartItem))
	router.DELETE("/api/carts/:cartId", middleware.Authenticate(cart.DeleteCart))
}

func AddCatalogRoutes(router *httprouter.Router) {
	router.GET("/api/product/:productId", catalog.GetProductHandler)
	router.GET("/api/store/:storeId", catalog.GetStoreHandler)
	router.GET("/api/commissions", catalog.ListCommissions)
}

func AddUploadRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/upload/:kind", rl.Limit(middleware.Authenticate(filemgr.Upload)))
}
