package ledger

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

// ListUserTransactions returns the principal's ledger history, newest
// first.
func ListUserTransactions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	listTransactions(w, r, ctx, bson.M{"userId": pr.UserID})
}

// ListStoreTransactions returns a store's ledger history to its
// owner, staff, or an admin.
func ListStoreTransactions(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
		log.Println("ListStoreTransactions store lookup error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load store")
		return
	}
	if !pr.CanManageStore(store) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not your store")
		return
	}

	listTransactions(w, r, ctx, bson.M{"storeId": store.ID})
}

// ListAllTransactions is the admin view over the whole ledger.
func ListAllTransactions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	listTransactions(w, r, ctx, bson.M{})
}

func listTransactions(w http.ResponseWriter, r *http.Request, ctx context.Context, filter bson.M) {
	opts := utils.ParseQueryOptions(r)
	if opts.Search != "" {
		filter["_id"] = opts.Search
	}

	cursor, err := db.TransactionCollection.Find(ctx, filter, opts.FindOptions())
	if err != nil {
		log.Println("listTransactions Find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load transactions")
		return
	}
	defer cursor.Close(ctx)

	var txns []models.Transaction
	if err := cursor.All(ctx, &txns); err != nil {
		log.Println("listTransactions cursor.All error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading transactions")
		return
	}
	if len(txns) == 0 {
		txns = []models.Transaction{}
	}

	total, err := db.TransactionCollection.CountDocuments(ctx, filter)
	if err != nil {
		log.Println("listTransactions Count error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error counting transactions")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"transactions": txns,
		"total":        total,
		"page":         opts.Page,
		"limit":        opts.Limit,
	})
}

// GetWallet returns the principal's balance and point counter.
func GetWallet(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := catalog.GetUser(ctx, pr.UserID)
	if err == catalog.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Println("GetWallet user lookup error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load wallet")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"eWallet": user.EWallet,
		"point":   user.Point,
	})
}

// GetStoreWallet returns a store's balance to its owner, staff, or an
// admin.
func GetStoreWallet(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
		log.Println("GetStoreWallet store lookup error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load wallet")
		return
	}
	if !pr.CanManageStore(store) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not your store")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"eWallet": store.EWallet,
		"point":   store.Point,
	})
}
