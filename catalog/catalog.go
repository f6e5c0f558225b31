package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vendora/db"
	"vendora/models"
	"vendora/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Read-side boundary over users, stores, products and commissions.
// The order flow only ever looks these up by id; the single write it
// owns is the stock counter pair on products.

var ErrNotFound = errors.New("not found")

func GetUser(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return u, ErrNotFound
	}
	return u, err
}

func GetStore(ctx context.Context, id string) (models.Store, error) {
	var s models.Store
	err := db.StoreCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return s, ErrNotFound
	}
	return s, err
}

func GetProduct(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return p, ErrNotFound
	}
	return p, err
}

func GetCommission(ctx context.Context, id string) (models.Commission, error) {
	var c models.Commission
	err := db.CommissionCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return c, ErrNotFound
	}
	return c, err
}

// EnsurePlatformStore creates the platform's holding account if it
// does not exist yet. Pay-on-delivery payouts settle against it.
func EnsurePlatformStore(ctx context.Context, id string) error {
	_, err := db.StoreCollection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$setOnInsert": bson.M{
			"name":      "Platform",
			"ownerId":   id,
			"staffIds":  []string{},
			"e_wallet":  utils.ZeroD128,
			"point":     0,
			"isOpen":    false,
			"createdAt": time.Now(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// AdjustStock moves the quantity/sold pair on one product. Delivery
// passes (-n, +n); return approval passes (+n, -n).
func AdjustStock(ctx context.Context, productID string, quantityDelta, soldDelta int) error {
	res, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$inc": bson.M{"quantity": quantityDelta, "sold": soldDelta}},
	)
	if err != nil {
		return fmt.Errorf("adjust stock for %s: %w", productID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return nil
}
