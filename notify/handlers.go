package notify

import (
	"context"
	"log"
	"net/http"
	"time"

	"vendora/db"
	"vendora/middleware"
	"vendora/models"
	"vendora/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// ListNotifications returns the principal's notifications, newest
// first.
func ListNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	opts := utils.ParseQueryOptions(r)
	cursor, err := db.NotificationCollection.Find(ctx, bson.M{"userId": pr.UserID}, opts.FindOptions())
	if err != nil {
		log.Println("ListNotifications Find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not load notifications")
		return
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		log.Println("ListNotifications cursor.All error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading notifications")
		return
	}
	if len(notifications) == 0 {
		notifications = []models.Notification{}
	}

	utils.RespondWithJSON(w, http.StatusOK, notifications)
}

// MarkRead flips one of the principal's notifications to read.
func MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pr, ok := middleware.GetPrincipal(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	res, err := db.NotificationCollection.UpdateOne(ctx,
		bson.M{"_id": ps.ByName("id"), "userId": pr.UserID},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		log.Println("MarkRead error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not update notification")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Notification not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
