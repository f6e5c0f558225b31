package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection         *mongo.Collection
	StoreCollection        *mongo.Collection
	ProductCollection      *mongo.Collection
	CommissionCollection   *mongo.Collection
	CartCollection         *mongo.Collection
	CartItemCollection     *mongo.Collection
	OrderCollection        *mongo.Collection
	OrderItemCollection    *mongo.Collection
	TransactionCollection  *mongo.Collection
	NotificationCollection *mongo.Collection
	Client                 *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "marketdb"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database(dbName)
	UserCollection = database.Collection("users")
	StoreCollection = database.Collection("stores")
	ProductCollection = database.Collection("products")
	CommissionCollection = database.Collection("commissions")
	CartCollection = database.Collection("carts")
	CartItemCollection = database.Collection("cartitems")
	OrderCollection = database.Collection("orders")
	OrderItemCollection = database.Collection("orderitems")
	TransactionCollection = database.Collection("transactions")
	NotificationCollection = database.Collection("notifications")
}

// EnsureIndexes creates the indexes the order flow relies on. The
// partial unique index is what makes "one live cart per (user, store)"
// hold under concurrent add-to-cart requests.
func EnsureIndexes(ctx context.Context) error {
	_, err := CartCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "storeId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"isDeleted": false}),
	})
	if err != nil {
		return err
	}

	_, err = CartItemCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "cartId", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = OrderItemCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "orderId", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = OrderCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "storeId", Value: 1}, {Key: "status", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = NotificationCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// WithTxn runs fn inside a multi-document transaction. The order
// status write, wallet increments, transaction inserts and point
// updates all commit or abort together.
func WithTxn(ctx context.Context, fn func(sc mongo.SessionContext) (interface{}, error)) (interface{}, error) {
	session, err := Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	return session.WithTransaction(ctx, fn)
}
