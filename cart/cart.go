package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"vendora/catalog"
	"vendora/db"
	"vendora/middleware"
	"vendora/models"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type addToCartRequest struct {
	ProductID       string   `json:"productId"`
	VariantValueIDs []string `json:"variantValueIds"`
	Count           int      `json:"count"`
}

// AddToCart puts count units of a product variant into the buyer's
// cart for that product's store. The cart upsert leans on the partial
// unique (userId, storeId) index; re-adding the same variant bumps the
// existing item's count.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.ProductID == "" || req.Count < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields")
		return
	}

	product, err := catalog.GetProduct(ctx, req.ProductID)
	if err == catalog.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Println("AddToCart product lookup error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load product")
		return
	}
	if !product.IsSelling {
		utils.RespondWithError(w, http.StatusBadRequest, "Product is not for sale")
		return
	}

	cartID, err := upsertCart(ctx, pr.UserID, product.StoreID)
	if err != nil {
		log.Println("AddToCart cart upsert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	// Same (cart, product, variant) row increments; new variant rows
	// insert. Variant ids are sorted so the match is order-insensitive.
	variant := normalizeVariant(req.VariantValueIDs)
	itemUpdate := bson.M{
		"$inc": bson.M{"count": req.Count},
		"$setOnInsert": bson.M{
			"_id":       utils.GetUUID(),
			"createdAt": time.Now(),
		},
	}
	_, err = db.CartItemCollection.UpdateOne(ctx,
		bson.M{"cartId": cartID, "productId": req.ProductID, "variantValueIds": variant},
		itemUpdate,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Println("AddToCart item upsert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"status": "added", "cartId": cartID})
}

// upsertCart finds or creates the live cart for (userID, storeID).
func upsertCart(ctx context.Context, userID, storeID string) (string, error) {
	filter := bson.M{"userId": userID, "storeId": storeID, "isDeleted": false}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":       utils.GetUUID(),
		"createdAt": time.Now(),
	}}

	var cart models.Cart
	err := db.CartCollection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&cart)
	if err != nil {
		return "", err
	}
	return cart.ID, nil
}

func normalizeVariant(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Strings(out)
	return out
}

// GetCarts returns the buyer's live carts, each with its items.
func GetCarts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cursor, err := db.CartCollection.Find(ctx, bson.M{"userId": pr.UserID, "isDeleted": false})
	if err != nil {
		log.Println("GetCarts Find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve carts")
		return
	}
	defer cursor.Close(ctx)

	var carts []models.Cart
	if err := cursor.All(ctx, &carts); err != nil {
		log.Println("GetCarts cursor.All error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading carts")
		return
	}

	type cartWithItems struct {
		models.Cart
		Items []models.CartItem `json:"items"`
	}
	out := make([]cartWithItems, 0, len(carts))
	for _, c := range carts {
		itemCursor, err := db.CartItemCollection.Find(ctx, bson.M{"cartId": c.ID})
		if err != nil {
			log.Println("GetCarts items error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Error reading cart items")
			return
		}
		var items []models.CartItem
		if err := itemCursor.All(ctx, &items); err != nil {
			log.Println("GetCarts items cursor.All error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Error reading cart items")
			return
		}
		if len(items) == 0 {
			items = []models.CartItem{}
		}
		out = append(out, cartWithItems{Cart: c, Items: items})
	}

	utils.RespondWithJSON(w, http.StatusOK, out)
}

type updateItemRequest struct {
	Count int `json:"count"`
}

// UpdateCartItem sets an item's count; zero or less removes the item.
func UpdateCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	item, cart, found := loadOwnedItem(ctx, w, pr.UserID, ps.ByName("itemId"))
	if !found {
		return
	}

	if req.Count < 1 {
		removeItem(ctx, w, item, cart)
		return
	}

	if _, err := db.CartItemCollection.UpdateOne(ctx,
		bson.M{"_id": item.ID},
		bson.M{"$set": bson.M{"count": req.Count}},
	); err != nil {
		log.Println("UpdateCartItem error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart item")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteCartItem removes one item; removing the last item retires the
// cart itself.
func DeleteCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	item, cart, found := loadOwnedItem(ctx, w, pr.UserID, ps.ByName("itemId"))
	if !found {
		return
	}

	removeItem(ctx, w, item, cart)
}

func removeItem(ctx context.Context, w http.ResponseWriter, item models.CartItem, cart models.Cart) {
	if _, err := db.CartItemCollection.DeleteOne(ctx, bson.M{"_id": item.ID}); err != nil {
		log.Println("removeItem delete error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove cart item")
		return
	}

	remaining, err := db.CartItemCollection.CountDocuments(ctx, bson.M{"cartId": cart.ID})
	if err == nil && remaining == 0 {
		if _, err := db.CartCollection.UpdateOne(ctx,
			bson.M{"_id": cart.ID},
			bson.M{"$set": bson.M{"isDeleted": true}},
		); err != nil {
			log.Println("removeItem cart retire error:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// DeleteCart soft-deletes a cart and drops its items.
func DeleteCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var cart models.Cart
	err := db.CartCollection.FindOne(ctx, bson.M{
		"_id": ps.ByName("cartId"), "userId": pr.UserID, "isDeleted": false,
	}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Cart not found")
		return
	}
	if err != nil {
		log.Println("DeleteCart lookup error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load cart")
		return
	}

	if _, err := db.CartCollection.UpdateOne(ctx,
		bson.M{"_id": cart.ID},
		bson.M{"$set": bson.M{"isDeleted": true}},
	); err != nil {
		log.Println("DeleteCart update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete cart")
		return
	}
	if _, err := db.CartItemCollection.DeleteMany(ctx, bson.M{"cartId": cart.ID}); err != nil {
		log.Println("DeleteCart items cleanup error:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func loadOwnedItem(ctx context.Context, w http.ResponseWriter, userID, itemID string) (models.CartItem, models.Cart, bool) {
	var item models.CartItem
	var cart models.Cart

	err := db.CartItemCollection.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Cart item not found")
		return item, cart, false
	}
	if err != nil {
		log.Println("loadOwnedItem item error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load cart item")
		return item, cart, false
	}

	err = db.CartCollection.FindOne(ctx, bson.M{"_id": item.CartID, "isDeleted": false}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Cart not found")
		return item, cart, false
	}
	if err != nil {
		log.Println("loadOwnedItem cart error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load cart")
		return item, cart, false
	}
	if cart.UserID != userID {
		utils.RespondWithError(w, http.StatusUnauthorized, "This is not the right cart")
		return item, cart, false
	}

	return item, cart, true
}
