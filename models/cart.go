package models

import "time"

// Cart groups a buyer's pending items for a single store. Only one
// non-deleted cart may exist per (userId, storeId) pair; checkout
// soft-deletes it instead of removing the document.
type Cart struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	StoreID   string    `json:"storeId" bson:"storeId"`
	IsDeleted bool      `json:"isDeleted" bson:"isDeleted"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// CartItem belongs to exactly one cart. Re-adding the same product
// variant bumps Count rather than inserting a second row.
type CartItem struct {
	ID              string    `json:"id" bson:"_id"`
	CartID          string    `json:"cartId" bson:"cartId"`
	ProductID       string    `json:"productId" bson:"productId"`
	VariantValueIDs []string  `json:"variantValueIds" bson:"variantValueIds"`
	Count           int       `json:"count" bson:"count"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
}
