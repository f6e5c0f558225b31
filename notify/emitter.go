package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"vendora/db"
	"vendora/models"
	"vendora/rdx"
	"vendora/utils"
)

const eventsChannel = "order-events"

// Event is a fire-and-forget notification bound for one user.
type Event struct {
	UserID   string `json:"userId"`
	Message  string `json:"message"`
	ObjectID string `json:"objectId,omitempty"`
}

// Emit publishes the event to Redis. Failures are logged and dropped;
// notification delivery never fails an order operation.
func Emit(ctx context.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] marshal event: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, eventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] publish event: %v", err)
	}
}

// StartWorker subscribes to the event channel, persists each event as
// a Notification document, pushes it over the hub and hands it to the
// mailer. Runs until the process exits.
func StartWorker(hub *Hub, mailer Mailer) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, eventsChannel)
	ch := sub.Channel()

	log.Println("[NotifyWorker] listening for order events...")

	for msg := range ch {
		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[NotifyWorker] parse event: %v", err)
			continue
		}
		if event.UserID == "" {
			continue
		}

		notification := models.Notification{
			ID:        utils.GetUUID(),
			UserID:    event.UserID,
			Message:   event.Message,
			ObjectID:  event.ObjectID,
			IsRead:    false,
			CreatedAt: time.Now(),
		}
		if _, err := db.NotificationCollection.InsertOne(ctx, notification); err != nil {
			log.Printf("[NotifyWorker] persist notification: %v", err)
		}

		if data, err := json.Marshal(notification); err == nil {
			hub.Push(event.UserID, data)
		}

		mailer.Send(event.UserID, event.Message)
	}
}

// Mailer is the delivery boundary. Actual transport lives elsewhere.
type Mailer interface {
	Send(userID, message string)
}

// LogMailer satisfies Mailer without sending anything.
type LogMailer struct{}

func (LogMailer) Send(userID, message string) {
	log.Printf("[Mail] to=%s message=%q", userID, message)
}
