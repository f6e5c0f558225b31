package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Returned is reachable only through the return
// workflow, never by a direct status update.
const (
	OrderPending    = "Pending"
	OrderProcessing = "Processing"
	OrderShipped    = "Shipped"
	OrderDelivered  = "Delivered"
	OrderCancelled  = "Cancelled"
	OrderReturned   = "Returned"
)

// Return request statuses.
const (
	ReturnPending  = "Pending"
	ReturnApproved = "Approved"
	ReturnRejected = "Rejected"
)

// Order is the immutable header written at checkout. Monetary fields
// are Decimal128 so they serialize as strings and never drift the way
// float64 would. Only Status and ReturnRequest change after creation.
type Order struct {
	ID               string               `json:"id" bson:"_id"`
	UserID           string               `json:"userId" bson:"userId"`
	StoreID          string               `json:"storeId" bson:"storeId"`
	CommissionID     string               `json:"commissionId" bson:"commissionId"`
	Status           string               `json:"status" bson:"status"`
	Address          string               `json:"address" bson:"address"`
	Phone            string               `json:"phone" bson:"phone"`
	ShippingFee      primitive.Decimal128 `json:"shippingFee" bson:"shippingFee"`
	AmountFromUser   primitive.Decimal128 `json:"amountFromUser" bson:"amountFromUser"`
	AmountFromStore  primitive.Decimal128 `json:"amountFromStore" bson:"amountFromStore"`
	AmountToStore    primitive.Decimal128 `json:"amountToStore" bson:"amountToStore"`
	AmountToPlatform primitive.Decimal128 `json:"amountToPlatform" bson:"amountToPlatform"`
	IsPaidBefore     bool                 `json:"isPaidBefore" bson:"isPaidBefore"`
	ReturnRequest    *ReturnRequest       `json:"returnRequest,omitempty" bson:"returnRequest,omitempty"`
	CreatedAt        time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// OrderItem is snapshot-copied from a CartItem at intake. It never
// points back at the cart, so later cart mutation cannot touch a
// placed order.
type OrderItem struct {
	ID              string   `json:"id" bson:"_id"`
	OrderID         string   `json:"orderId" bson:"orderId"`
	ProductID       string   `json:"productId" bson:"productId"`
	VariantValueIDs []string `json:"variantValueIds" bson:"variantValueIds"`
	Count           int      `json:"count" bson:"count"`
	IsDeleted       bool     `json:"isDeleted" bson:"isDeleted"`
}

// ReturnRequest is embedded in its order; at most one per order.
type ReturnRequest struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"userId" bson:"userId"`
	Reason    string    `json:"reason" bson:"reason"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
