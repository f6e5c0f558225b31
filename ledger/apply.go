package ledger

import (
	"context"
	"fmt"
	"time"

	"vendora/db"
	"vendora/models"
	"vendora/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Apply writes each effect as an atomic wallet $inc plus an
// append-only Transaction row. There is no deduplication: applying the
// same effect twice moves the wallet twice. Balances may go negative;
// the wallet is a settlement record, not a spend-gated balance.
//
// Callers that need all-or-nothing pass a session context from
// db.WithTxn.
func Apply(ctx context.Context, effects []Effect) error {
	for _, e := range effects {
		signed, err := utils.ToDecimal128(e.SignedAmount())
		if err != nil {
			return err
		}
		amount, err := utils.ToDecimal128(e.Amount)
		if err != nil {
			return err
		}

		col, err := accountCollection(e.AccountType)
		if err != nil {
			return err
		}

		res, err := col.UpdateOne(ctx,
			bson.M{"_id": e.AccountID},
			bson.M{"$inc": bson.M{"e_wallet": signed}},
		)
		if err != nil {
			return fmt.Errorf("update e_wallet: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("%s %s not found", e.AccountType, e.AccountID)
		}

		txn := models.Transaction{
			ID:        utils.GetUUID(),
			IsUp:      e.IsUp,
			Code:      e.Code,
			Amount:    amount,
			CreatedAt: time.Now(),
		}
		if e.AccountType == AccountUser {
			txn.UserID = e.AccountID
		} else {
			txn.StoreID = e.AccountID
		}
		if _, err := db.TransactionCollection.InsertOne(ctx, txn); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	}
	return nil
}

// AddPoints moves the loyalty counters. Zero deltas are skipped.
func AddPoints(ctx context.Context, userID string, userDelta int, storeID string, storeDelta int) error {
	if userDelta != 0 {
		if _, err := db.UserCollection.UpdateOne(ctx,
			bson.M{"_id": userID},
			bson.M{"$inc": bson.M{"point": userDelta}},
		); err != nil {
			return fmt.Errorf("update user point: %w", err)
		}
	}
	if storeDelta != 0 {
		if _, err := db.StoreCollection.UpdateOne(ctx,
			bson.M{"_id": storeID},
			bson.M{"$inc": bson.M{"point": storeDelta}},
		); err != nil {
			return fmt.Errorf("update store point: %w", err)
		}
	}
	return nil
}

func accountCollection(accountType string) (*mongo.Collection, error) {
	switch accountType {
	case AccountUser:
		return db.UserCollection, nil
	case AccountStore:
		return db.StoreCollection, nil
	default:
		return nil, ErrBadAccount
	}
}
