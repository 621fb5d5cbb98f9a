package notify

import (
	"context"
	"time"

	"ThreadsApp/tools/errs"
)

// Notifier pairs the durable write with the live push: persist the record,
// then hand it to Fanout. The push half is best-effort; only the persist
// half can fail.
type Notifier struct {
	store  NotificationStore
	fanout *Fanout
}

func NewNotifier(store NotificationStore, fanout *Fanout) *Notifier {
	return &Notifier{store: store, fanout: fanout}
}

func (n *Notifier) Push(ctx context.Context, rec *Notification) error {
	if rec == nil || rec.Recipient == "" {
		return errs.New("notification recipient is required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if err := n.store.Insert(ctx, rec); err != nil {
		return errs.WrapMsg(err, "persist notification", "recipient", rec.Recipient)
	}
	n.fanout.SendNotification(rec.Recipient, *rec)
	return nil
}
