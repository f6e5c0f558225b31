package models

import "time"

// Notification is the persisted copy of a pushed event, so users who
// were offline still see it.
type Notification struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	Message   string    `json:"message" bson:"message"`
	ObjectID  string    `json:"objectId,omitempty" bson:"objectId,omitempty"`
	IsRead    bool      `json:"isRead" bson:"isRead"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
