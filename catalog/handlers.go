package catalog

import (
	"context"
	"log"
	"net/http"
	"time"

	"vendora/db"
	"vendora/models"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// GetProductHandler returns one product by id.
func GetProductHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	product, err := GetProduct(ctx, ps.ByName("productId"))
	if err == ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Println("GetProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load product")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

// GetStoreHandler returns one store by id.
func GetStoreHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	store, err := GetStore(ctx, ps.ByName("storeId"))
	if err == ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "Store not found")
		return
	}
	if err != nil {
		log.Println("GetStore error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load store")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, store)
}

// ListCommissions returns every commission plan.
func ListCommissions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.CommissionCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Println("ListCommissions Find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load commissions")
		return
	}
	defer cursor.Close(ctx)

	var commissions []models.Commission
	if err := cursor.All(ctx, &commissions); err != nil {
		log.Println("ListCommissions cursor.All error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading commissions")
		return
	}
	if len(commissions) == 0 {
		commissions = []models.Commission{}
	}

	utils.RespondWithJSON(w, http.StatusOK, commissions)
}
