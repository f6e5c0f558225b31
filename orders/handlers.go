package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"vendora/catalog"
	"vendora/db"
	"vendora/ledger"
	"vendora/middleware"
	"vendora/models"
	"vendora/notify"
	"vendora/rdx"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type statusRequest struct {
	Status string `json:"status"`
}

// CancelByBuyer handles the one action a buyer has after checkout.
// Pending only, inside the window, target must be Cancelled.
func CancelByBuyer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Status is required")
		return
	}

	order, found := loadOrder(ctx, w, ps.ByName("orderId"))
	if !found {
		return
	}
	if order.UserID != pr.UserID {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not your order")
		return
	}

	if err := CheckBuyerCancel(order, req.Status, time.Now()); err != nil {
		respondTransitionError(w, err)
		return
	}

	outcome, err := CancelOutcome(order)
	if err != nil {
		log.Println("CancelByBuyer outcome error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Cancel failed")
		return
	}

	if !commitTransition(ctx, w, order, models.OrderCancelled, outcome) {
		return
	}

	if store, err := catalog.GetStore(ctx, order.StoreID); err == nil {
		notify.Emit(ctx, notify.Event{
			UserID:   store.OwnerID,
			Message:  "Order " + order.ID + " was cancelled by the buyer",
			ObjectID: order.ID,
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": "Order cancelled",
		"status":  models.OrderCancelled,
	})
}

// UpdateStatusByStore moves an order along the store path. Forbidden
// edges are rejected before anything is written; terminal transitions
// carry their ledger, point and stock side effects in one transaction.
func UpdateStatusByStore(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Status is required")
		return
	}

	order, found := loadOrder(ctx, w, ps.ByName("orderId"))
	if !found {
		return
	}

	store, err := catalog.GetStore(ctx, order.StoreID)
	if err != nil {
		log.Println("UpdateStatusByStore store lookup error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load store")
		return
	}
	if !pr.CanManageStore(store) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not your store")
		return
	}

	if err := CheckStoreTransition(order.Status, req.Status); err != nil {
		respondTransitionError(w, err)
		return
	}

	// A repeated status is a no-op. Answering without writing keeps a
	// retried Delivered or Cancelled request from settling twice.
	if req.Status == order.Status {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"success": "Order status unchanged",
			"status":  order.Status,
		})
		return
	}

	var items []models.OrderItem
	if req.Status == models.OrderDelivered {
		if items, err = loadOrderItems(ctx, order.ID); err != nil {
			log.Println("UpdateStatusByStore items error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Status update failed")
			return
		}
	}

	outcome, err := TransitionOutcome(order, items, req.Status)
	if err != nil {
		log.Println("UpdateStatusByStore outcome error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Status update failed")
		return
	}

	if !commitTransition(ctx, w, order, req.Status, outcome) {
		return
	}

	notify.Emit(ctx, notify.Event{
		UserID:   order.UserID,
		Message:  "Your order is now " + req.Status,
		ObjectID: order.ID,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": "Order status updated",
		"status":  req.Status,
	})
}

// commitTransition writes the status change plus the outcome's wallet,
// point and stock effects inside one transaction, holding redis locks
// on the touched wallets. Reports success; on failure the response has
// already been written.
func commitTransition(ctx context.Context, w http.ResponseWriter, order models.Order, target string, outcome Outcome) bool {
	if len(outcome.Effects) > 0 {
		for _, e := range outcome.Effects {
			unlock, ok := rdx.LockWallet(e.AccountType + ":" + e.AccountID)
			if !ok {
				utils.RespondWithError(w, http.StatusTooManyRequests, "Please retry")
				return false
			}
			defer unlock()
		}
	}

	_, err := db.WithTxn(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := db.OrderCollection.UpdateOne(sc,
			bson.M{"_id": order.ID, "status": order.Status},
			bson.M{"$set": bson.M{"status": target, "updatedAt": time.Now()}},
		)
		if err != nil {
			return nil, err
		}
		// The status filter makes a concurrent transition lose
		// cleanly instead of double-applying effects.
		if res.MatchedCount == 0 {
			return nil, errors.New("order status changed concurrently")
		}
		return nil, applyOutcome(sc, order, outcome)
	})
	if err != nil {
		log.Println("commitTransition txn error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Status update failed")
		return false
	}
	return true
}

// applyOutcome runs inside the caller's transaction.
func applyOutcome(sc mongo.SessionContext, order models.Order, outcome Outcome) error {
	if err := ledger.Apply(sc, outcome.Effects); err != nil {
		return err
	}
	if err := ledger.AddPoints(sc, order.UserID, outcome.UserPoints, order.StoreID, outcome.StorePoints); err != nil {
		return err
	}
	for productID, quantityDelta := range outcome.Restock {
		if err := catalog.AdjustStock(sc, productID, quantityDelta, -quantityDelta); err != nil {
			return err
		}
	}
	return nil
}

func respondTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCancelWindow):
		utils.RespondWithError(w, http.StatusBadRequest, "Not within the time allowed")
	case errors.Is(err, ErrNotPending):
		utils.RespondWithError(w, http.StatusBadRequest, "Only pending orders can be cancelled")
	case errors.Is(err, ErrBadTarget), errors.Is(err, ErrBadTransition):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Status update failed")
	}
}

func loadOrder(ctx context.Context, w http.ResponseWriter, orderID string) (models.Order, bool) {
	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return order, false
	}
	if err != nil {
		log.Println("order lookup error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load order")
		return order, false
	}
	return order, true
}

func loadOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	cursor, err := db.OrderItemCollection.Find(ctx, bson.M{"orderId": orderID})
	if err != nil {
		return nil, err
	}
	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
