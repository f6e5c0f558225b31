package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction codes mirror the order events that produced them.
const (
	TxnCodeRefund  = "REFUND"
	TxnCodePayout  = "PAYOUT"
	TxnCodeReturn  = "RETURN"
	TxnCodeDeposit = "DEPOSIT"
)

// Transaction is an append-only ledger row. Exactly one of UserID or
// StoreID is set. IsUp true means the wallet was credited.
type Transaction struct {
	ID        string               `json:"id" bson:"_id"`
	UserID    string               `json:"userId,omitempty" bson:"userId,omitempty"`
	StoreID   string               `json:"storeId,omitempty" bson:"storeId,omitempty"`
	IsUp      bool                 `json:"isUp" bson:"isUp"`
	Code      string               `json:"code" bson:"code"`
	Amount    primitive.Decimal128 `json:"amount" bson:"amount"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
}
