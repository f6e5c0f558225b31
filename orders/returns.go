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
	"vendora/middleware"
	"vendora/models"
	"vendora/notify"
	"vendora/rdx"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type returnRequestBody struct {
	Reason string `json:"reason"`
}

type resolveReturnBody struct {
	Status string `json:"status"`
}

// CreateReturnRequest attaches a return request to a delivered order.
// One live request per order: a pending or approved one blocks a new
// filing, a rejected one does not.
func CreateReturnRequest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req returnRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reason == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Reason is required")
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
	if err := CheckReturnEligible(order); err != nil {
		respondReturnError(w, err)
		return
	}

	request := models.ReturnRequest{
		ID:        utils.GetUUID(),
		UserID:    pr.UserID,
		Reason:    req.Reason,
		Status:    models.ReturnPending,
		CreatedAt: time.Now(),
	}

	res, err := db.OrderCollection.UpdateOne(ctx,
		// Re-check eligibility in the filter so two simultaneous
		// filings cannot both land.
		bson.M{
			"_id":    order.ID,
			"status": models.OrderDelivered,
			"$or": bson.A{
				bson.M{"returnRequest": bson.M{"$exists": false}},
				bson.M{"returnRequest.status": models.ReturnRejected},
			},
		},
		bson.M{"$set": bson.M{"returnRequest": request, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Println("CreateReturnRequest update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not create return request")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Order already has a return request")
		return
	}

	if store, err := catalog.GetStore(ctx, order.StoreID); err == nil {
		notify.Emit(ctx, notify.Event{
			UserID:   store.OwnerID,
			Message:  "Return requested for order " + order.ID,
			ObjectID: order.ID,
		})
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success":       "Return request created",
		"returnRequest": request,
	})
}

// CheckReturnEligible gates filing: delivered orders only, and no
// live request already attached.
func CheckReturnEligible(o models.Order) error {
	if o.Status != models.OrderDelivered {
		return ErrReturnState
	}
	if o.ReturnRequest != nil && o.ReturnRequest.Status != models.ReturnRejected {
		return ErrReturnExists
	}
	return nil
}

// ResolveReturnRequest approves or rejects the order's return request.
// Rejection just records the decision. Approval restocks every item,
// reverses the settlement on both wallets, drops a point on each side
// and moves the order to Returned, all in one transaction.
func ResolveReturnRequest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req resolveReturnBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		(req.Status != models.ReturnApproved && req.Status != models.ReturnRejected) {
		utils.RespondWithError(w, http.StatusBadRequest, "Status must be Approved or Rejected")
		return
	}

	order, found := loadOrder(ctx, w, ps.ByName("orderId"))
	if !found {
		return
	}

	store, err := catalog.GetStore(ctx, order.StoreID)
	if err != nil {
		log.Println("ResolveReturnRequest store lookup error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load store")
		return
	}
	if !pr.CanManageStore(store) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not your store")
		return
	}

	if order.ReturnRequest == nil || order.ReturnRequest.ID != ps.ByName("requestId") {
		utils.RespondWithError(w, http.StatusNotFound, "Return request not found")
		return
	}
	if order.ReturnRequest.Status != models.ReturnPending {
		respondReturnError(w, ErrReturnResolved)
		return
	}

	if req.Status == models.ReturnRejected {
		if _, err := db.OrderCollection.UpdateOne(ctx,
			bson.M{"_id": order.ID, "returnRequest.status": models.ReturnPending},
			bson.M{"$set": bson.M{"returnRequest.status": models.ReturnRejected, "updatedAt": time.Now()}},
		); err != nil {
			log.Println("ResolveReturnRequest reject error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Could not update return request")
			return
		}

		notify.Emit(ctx, notify.Event{
			UserID:   order.UserID,
			Message:  "Your return request for order " + order.ID + " was rejected",
			ObjectID: order.ID,
		})
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"success": "Return request rejected"})
		return
	}

	items, err := loadOrderItems(ctx, order.ID)
	if err != nil {
		log.Println("ResolveReturnRequest items error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to handle approved return")
		return
	}

	outcome, err := ReturnApprovalOutcome(order, items)
	if err != nil {
		log.Println("ResolveReturnRequest outcome error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to handle approved return")
		return
	}

	for _, e := range outcome.Effects {
		unlock, ok := rdx.LockWallet(e.AccountType + ":" + e.AccountID)
		if !ok {
			utils.RespondWithError(w, http.StatusTooManyRequests, "Please retry")
			return
		}
		defer unlock()
	}

	_, err = db.WithTxn(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := db.OrderCollection.UpdateOne(sc,
			bson.M{"_id": order.ID, "returnRequest.status": models.ReturnPending},
			bson.M{"$set": bson.M{
				"status":               models.OrderReturned,
				"returnRequest.status": models.ReturnApproved,
				"updatedAt":            time.Now(),
			}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, errors.New("return request resolved concurrently")
		}
		return nil, applyOutcome(sc, order, outcome)
	})
	if err != nil {
		log.Println("ResolveReturnRequest txn error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to handle approved return")
		return
	}

	notify.Emit(ctx, notify.Event{
		UserID:   order.UserID,
		Message:  "Your return request for order " + order.ID + " was approved",
		ObjectID: order.ID,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": "Return request approved",
		"status":  models.OrderReturned,
	})
}

func respondReturnError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrReturnState):
		utils.RespondWithError(w, http.StatusBadRequest, "Only delivered orders can be returned")
	case errors.Is(err, ErrReturnExists):
		utils.RespondWithError(w, http.StatusBadRequest, "Order already has a return request")
	case errors.Is(err, ErrReturnResolved):
		utils.RespondWithError(w, http.StatusBadRequest, "Return request already resolved")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not create return request")
	}
}
