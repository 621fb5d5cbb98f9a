package notify

import (
	"context"
	"sync"
	"testing"

	"ThreadsApp/tools/errs"
)

// fakeStore is an in-memory NotificationStore for tests.
type fakeStore struct {
	mu       sync.Mutex
	unread   map[string]int64
	countErr error
	markErr  error
	inserted []*Notification
}

func newFakeStore() *fakeStore {
	return &fakeStore{unread: make(map[string]int64)}
}

func (f *fakeStore) CountUnread(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.unread[userID], nil
}

func (f *fakeStore) MarkAllRead(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.unread[userID] = 0
	return nil
}

func (f *fakeStore) Insert(_ context.Context, n *Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, n)
	f.unread[n.Recipient]++
	return nil
}

func TestPublishUnreadCount(t *testing.T) {
	registry, _, fanout := newFanoutFixture()
	store := newFakeStore()
	store.unread["alice"] = 7
	counter := NewUnreadCounter(store, fanout)

	c := newTestClient("c1", "alice")
	registry.Register(c)

	res := counter.PublishUnreadCount(context.Background(), "alice")
	if res.Err != nil {
		t.Fatalf("unexpected err: %v", res.Err)
	}
	if !res.Delivered || res.Count != 7 {
		t.Fatalf("result = %+v, want delivered count 7", res)
	}

	env := recvEnvelope(t, c)
	if env.Type != EventUnreadCount {
		t.Fatalf("type = %q", env.Type)
	}
	data := env.Data.(map[string]interface{})
	if data["count"] != float64(7) {
		t.Fatalf("count payload = %v", data["count"])
	}
}

func TestMarkReadRepublishesZero(t *testing.T) {
	registry, _, fanout := newFanoutFixture()
	store := newFakeStore()
	store.unread["alice"] = 3
	counter := NewUnreadCounter(store, fanout)

	c := newTestClient("c1", "alice")
	registry.Register(c)

	res := counter.MarkRead(context.Background(), "alice")
	if res.Err != nil {
		t.Fatalf("unexpected err: %v", res.Err)
	}
	if res.Count != 0 {
		t.Fatalf("republished count = %d, want 0", res.Count)
	}

	env := recvEnvelope(t, c)
	data := env.Data.(map[string]interface{})
	if data["count"] != float64(0) {
		t.Fatalf("count payload = %v", data["count"])
	}
}

func TestStoreFailureIsSuppressed(t *testing.T) {
	registry, _, fanout := newFanoutFixture()
	store := newFakeStore()
	store.countErr = errs.New("store down")
	counter := NewUnreadCounter(store, fanout)

	c := newTestClient("c1", "alice")
	registry.Register(c)

	res := counter.PublishUnreadCount(context.Background(), "alice")
	if res.Err == nil {
		t.Fatalf("expected an error in the result")
	}
	// the previously published count stands: nothing new is delivered
	assertNoEvent(t, c)
}

func TestMarkReadPublishesEvenWhenUpdateFails(t *testing.T) {
	registry, _, fanout := newFanoutFixture()
	store := newFakeStore()
	store.unread["alice"] = 5
	store.markErr = errs.New("update refused")
	counter := NewUnreadCounter(store, fanout)

	c := newTestClient("c1", "alice")
	registry.Register(c)

	res := counter.MarkRead(context.Background(), "alice")
	if res.Err == nil {
		t.Fatalf("mark failure should surface in the result for logging")
	}
	// republish still happened against the untouched store
	env := recvEnvelope(t, c)
	data := env.Data.(map[string]interface{})
	if data["count"] != float64(5) {
		t.Fatalf("count payload = %v, want the stale 5", data["count"])
	}
}

func TestUnreadForDisconnectedUser(t *testing.T) {
	_, _, fanout := newFanoutFixture()
	store := newFakeStore()
	store.unread["ghost"] = 2
	counter := NewUnreadCounter(store, fanout)

	res := counter.PublishUnreadCount(context.Background(), "ghost")
	if res.Err != nil {
		t.Fatalf("a delivery miss is not an error: %v", res.Err)
	}
	if res.Delivered {
		t.Fatalf("nothing should be delivered to a disconnected user")
	}
}
