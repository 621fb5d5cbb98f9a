package storage

import (
	"context"
	"time"

	"ThreadsApp/service/notify"
	"ThreadsApp/tools/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const notificationsCollection = "notifications"

// Notifications is the mongo-backed notification store.
// Filters use the recipient/isRead fields of the notifications collection.
type Notifications struct {
	col *mongo.Collection
}

// NewNotifications accepts a nil database: the store then fails every call
// with a plain error, which the unread counter logs and suppresses. A down
// store must never take the live channel with it.
func NewNotifications(db *mongo.Database) *Notifications {
	s := &Notifications{}
	if db != nil {
		s.col = db.Collection(notificationsCollection)
	}
	return s
}

func (s *Notifications) CountUnread(ctx context.Context, userID string) (int64, error) {
	if s.col == nil {
		return 0, errs.New("notification store not initialized")
	}
	count, err := s.col.CountDocuments(ctx, bson.M{
		"recipient": userID,
		"isRead":    false,
	})
	if err != nil {
		return 0, errs.WrapMsg(err, "count unread", "recipient", userID)
	}
	return count, nil
}

func (s *Notifications) MarkAllRead(ctx context.Context, userID string) error {
	if s.col == nil {
		return errs.New("notification store not initialized")
	}
	_, err := s.col.UpdateMany(ctx,
		bson.M{"recipient": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return errs.WrapMsg(err, "mark all read", "recipient", userID)
	}
	return nil
}

func (s *Notifications) Insert(ctx context.Context, n *notify.Notification) error {
	if s.col == nil {
		return errs.New("notification store not initialized")
	}
	if n.ID == "" {
		n.ID = primitive.NewObjectID().Hex()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if _, err := s.col.InsertOne(ctx, n); err != nil {
		return errs.WrapMsg(err, "insert notification", "recipient", n.Recipient)
	}
	return nil
}
