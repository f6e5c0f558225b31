package orders

import (
	"context"
	"log"
	"net/http"
	"time"

	"vendora/catalog"
	"vendora/db"
	"vendora/middleware"
	"vendora/models"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// ListOrdersByUser returns the principal's own orders.
func ListOrdersByUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	listOrders(w, r, ctx, bson.M{"userId": pr.UserID})
}

// ListOrdersByStore returns a store's orders to its managers.
func ListOrdersByStore(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	store, err := catalog.GetStore(ctx, ps.ByName("storeId"))
	if err == catalog.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "Store not found")
		return
	}
	if err != nil {
		log.Println("ListOrdersByStore store lookup error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load store")
		return
	}
	if !pr.CanManageStore(store) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not your store")
		return
	}

	listOrders(w, r, ctx, bson.M{"storeId": store.ID})
}

// ListAllOrders is the admin view.
func ListAllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	listOrders(w, r, ctx, bson.M{})
}

func listOrders(w http.ResponseWriter, r *http.Request, ctx context.Context, filter bson.M) {
	opts := utils.ParseQueryOptions(r)
	if opts.Search != "" {
		filter["_id"] = opts.Search
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := db.OrderCollection.Find(ctx, filter, opts.FindOptions())
	if err != nil {
		log.Println("listOrders Find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load orders")
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		log.Println("listOrders cursor.All error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading orders")
		return
	}
	if len(orders) == 0 {
		orders = []models.Order{}
	}

	total, err := db.OrderCollection.CountDocuments(ctx, filter)
	if err != nil {
		log.Println("listOrders Count error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error counting orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"orders": orders,
		"total":  total,
		"page":   opts.Page,
		"limit":  opts.Limit,
	})
}

// GetOrder returns one order with its items and populated buyer,
// store and commission summaries. Buyer, store managers and admins
// may read it.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	order, found := loadOrder(ctx, w, ps.ByName("orderId"))
	if !found {
		return
	}

	store, err := catalog.GetStore(ctx, order.StoreID)
	if err != nil && err != catalog.ErrNotFound {
		log.Println("GetOrder store lookup error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load order")
		return
	}
	if order.UserID != pr.UserID && !pr.CanManageStore(store) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not your order")
		return
	}

	items, err := loadOrderItems(ctx, order.ID)
	if err != nil {
		log.Println("GetOrder items error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load order items")
		return
	}
	if len(items) == 0 {
		items = []models.OrderItem{}
	}

	payload := utils.M{
		"order": order,
		"items": items,
		"store": utils.M{"id": store.ID, "name": store.Name},
	}
	if user, err := catalog.GetUser(ctx, order.UserID); err == nil {
		payload["user"] = utils.M{"id": user.ID, "name": user.Name}
	}
	if commission, err := catalog.GetCommission(ctx, order.CommissionID); err == nil {
		payload["commission"] = commission
	}

	utils.RespondWithJSON(w, http.StatusOK, payload)
}

// CountOrders reports how many orders match the filter. Admin only;
// store managers get their own count via the store listing.
func CountOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	q := r.URL.Query()
	if userID := q.Get("userId"); userID != "" {
		filter["userId"] = userID
	}
	if storeID := q.Get("storeId"); storeID != "" {
		filter["storeId"] = storeID
	}
	if status := q.Get("status"); status != "" {
		filter["status"] = status
	}

	count, err := db.OrderCollection.CountDocuments(ctx, filter)
	if err != nil {
		log.Println("CountOrders error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error counting orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"count": count})
}
