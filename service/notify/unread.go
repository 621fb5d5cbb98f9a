package notify

import (
	"context"
)

// NotificationStore is the persistence collaborator behind the unread badge.
type NotificationStore interface {
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) error
	Insert(ctx context.Context, n *Notification) error
}

// PublishResult makes the non-fatal contract explicit: callers consume it
// for logging only. A store failure never terminates the live channel; the
// previously published count simply stands until the next successful recompute.
type PublishResult struct {
	Count     int64
	Delivered bool
	Err       error
}

// UnreadCounter recomputes the badge from the store on every publish.
// The count is never cached here.
type UnreadCounter struct {
	store  NotificationStore
	fanout *Fanout
}

func NewUnreadCounter(store NotificationStore, fanout *Fanout) *UnreadCounter {
	return &UnreadCounter{store: store, fanout: fanout}
}

// PublishUnreadCount queries the store and republishes the badge to the
// user's live connection.
func (u *UnreadCounter) PublishUnreadCount(ctx context.Context, userID string) PublishResult {
	count, err := u.store.CountUnread(ctx, userID)
	if err != nil {
		return PublishResult{Err: err}
	}
	delivered := u.fanout.SendToUser(userID, NewEnvelope(EventUnreadCount, UnreadCount{Count: count}))
	return PublishResult{Count: count, Delivered: delivered}
}

// MarkRead bulk-marks the user's notifications read, then republishes
// unconditionally, even if the update failed.
func (u *UnreadCounter) MarkRead(ctx context.Context, userID string) PublishResult {
	markErr := u.store.MarkAllRead(ctx, userID)
	res := u.PublishUnreadCount(ctx, userID)
	if res.Err == nil && markErr != nil {
		res.Err = markErr
	}
	return res
}
