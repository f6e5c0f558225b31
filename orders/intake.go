package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"vendora/catalog"
	"vendora/db"
	"vendora/middleware"
	"vendora/models"
	"vendora/notify"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// createOrderRequest carries the checkout form. Amounts arrive as
// strings so the client controls their precision end to end.
type createOrderRequest struct {
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	CommissionID     string `json:"commissionId"`
	ShippingFee      string `json:"shippingFee"`
	AmountFromUser   string `json:"amountFromUser"`
	AmountFromStore  string `json:"amountFromStore"`
	AmountToStore    string `json:"amountToStore"`
	AmountToPlatform string `json:"amountToPlatform"`
	IsPaidBefore     bool   `json:"isPaidBefore"`
}

// CreateOrder converts the cart at :cartId into an order. The order
// insert, item copies, cart soft-delete and cart item removal commit
// as one transaction. Stock is untouched here; it moves at delivery.
func CreateOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.Address == "" || req.Phone == "" || req.CommissionID == "" ||
		req.ShippingFee == "" || req.AmountFromUser == "" || req.AmountFromStore == "" ||
		req.AmountToStore == "" || req.AmountToPlatform == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	shippingFee, err := utils.ParseMoney(req.ShippingFee)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid shipping fee")
		return
	}
	amountFromUser, err := utils.ParseMoney(req.AmountFromUser)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid amount from user")
		return
	}
	amountFromStore, err := utils.ParseMoney(req.AmountFromStore)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid amount from store")
		return
	}
	amountToStore, err := utils.ParseMoney(req.AmountToStore)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid amount to store")
		return
	}
	amountToPlatform, err := utils.ParseMoney(req.AmountToPlatform)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid amount to platform")
		return
	}

	var cart models.Cart
	err = db.CartCollection.FindOne(ctx, bson.M{"_id": ps.ByName("cartId"), "isDeleted": false}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Cart not found")
		return
	}
	if err != nil {
		log.Println("CreateOrder cart lookup error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load cart")
		return
	}
	if cart.UserID != pr.UserID {
		utils.RespondWithError(w, http.StatusBadRequest, "This is not the right cart")
		return
	}

	if _, err := catalog.GetCommission(ctx, req.CommissionID); err != nil {
		if err == catalog.ErrNotFound {
			utils.RespondWithError(w, http.StatusBadRequest, "Commission not found")
			return
		}
		log.Println("CreateOrder commission lookup error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load commission")
		return
	}

	cursor, err := db.CartItemCollection.Find(ctx, bson.M{"cartId": cart.ID})
	if err != nil {
		log.Println("CreateOrder cart items error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load cart items")
		return
	}
	var cartItems []models.CartItem
	if err := cursor.All(ctx, &cartItems); err != nil {
		log.Println("CreateOrder cursor.All error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading cart items")
		return
	}
	if len(cartItems) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	now := time.Now()
	order := models.Order{
		ID:               utils.GetUUID(),
		UserID:           cart.UserID,
		StoreID:          cart.StoreID,
		CommissionID:     req.CommissionID,
		Status:           models.OrderPending,
		Address:          req.Address,
		Phone:            req.Phone,
		ShippingFee:      shippingFee,
		AmountFromUser:   amountFromUser,
		AmountFromStore:  amountFromStore,
		AmountToStore:    amountToStore,
		AmountToPlatform: amountToPlatform,
		IsPaidBefore:     req.IsPaidBefore,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	orderItems := CopyCartItems(order.ID, cartItems)

	_, err = db.WithTxn(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := db.OrderCollection.InsertOne(sc, order); err != nil {
			return nil, err
		}

		docs := make([]interface{}, 0, len(orderItems))
		for _, it := range orderItems {
			docs = append(docs, it)
		}
		if _, err := db.OrderItemCollection.InsertMany(sc, docs); err != nil {
			return nil, err
		}

		if _, err := db.CartCollection.UpdateOne(sc,
			bson.M{"_id": cart.ID},
			bson.M{"$set": bson.M{"isDeleted": true}},
		); err != nil {
			return nil, err
		}

		if _, err := db.CartItemCollection.DeleteMany(sc, bson.M{"cartId": cart.ID}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		log.Println("CreateOrder txn error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Order creation failed")
		return
	}

	if store, err := catalog.GetStore(ctx, order.StoreID); err == nil {
		notify.Emit(ctx, notify.Event{
			UserID:   store.OwnerID,
			Message:  "New order placed at " + store.Name,
			ObjectID: order.ID,
		})
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": "Order created",
		"order":   order,
		"items":   orderItems,
	})
}

// CopyCartItems snapshots cart items into order items. The copies keep
// product, variant and count but carry fresh ids and no cart link.
func CopyCartItems(orderID string, items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, models.OrderItem{
			ID:              utils.GetUUID(),
			OrderID:         orderID,
			ProductID:       it.ProductID,
			VariantValueIDs: it.VariantValueIDs,
			Count:           it.Count,
			IsDeleted:       false,
		})
	}
	return out
}
