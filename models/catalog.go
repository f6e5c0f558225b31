package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User carries the ledger targets (e_wallet, point) next to the
// account fields. Credential material lives with the auth service and
// is not modelled here.
type User struct {
	ID        string               `json:"id" bson:"_id"`
	Name      string               `json:"name" bson:"name"`
	Email     string               `json:"email" bson:"email"`
	Role      string               `json:"role" bson:"role"`
	EWallet   primitive.Decimal128 `json:"eWallet" bson:"e_wallet"`
	Point     int                  `json:"point" bson:"point"`
	IsDeleted bool                 `json:"isDeleted" bson:"isDeleted"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
}

// Store is a vendor. StaffIDs are managers; OwnerID has every staff
// capability plus ownership-only actions.
type Store struct {
	ID        string               `json:"id" bson:"_id"`
	Name      string               `json:"name" bson:"name"`
	OwnerID   string               `json:"ownerId" bson:"ownerId"`
	StaffIDs  []string             `json:"staffIds" bson:"staffIds"`
	EWallet   primitive.Decimal128 `json:"eWallet" bson:"e_wallet"`
	Point     int                  `json:"point" bson:"point"`
	IsOpen    bool                 `json:"isOpen" bson:"isOpen"`
	AvatarURL string               `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
}

// Product is a read-only catalog lookup for this service except for
// the quantity/sold counters, which delivery and return approval move.
type Product struct {
	ID        string               `json:"id" bson:"_id"`
	StoreID   string               `json:"storeId" bson:"storeId"`
	Name      string               `json:"name" bson:"name"`
	Price     primitive.Decimal128 `json:"price" bson:"price"`
	Quantity  int                  `json:"quantity" bson:"quantity"`
	Sold      int                  `json:"sold" bson:"sold"`
	IsSelling bool                 `json:"isSelling" bson:"isSelling"`
}

// Commission names a fee split between store and platform.
type Commission struct {
	ID   string               `json:"id" bson:"_id"`
	Name string               `json:"name" bson:"name"`
	Fee  primitive.Decimal128 `json:"fee" bson:"fee"`
}
