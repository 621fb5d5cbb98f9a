package notify

import (
	"testing"
	"time"

	"ThreadsApp/tools/errs"
)

// staticVerifier resolves fixed tokens to user IDs.
type staticVerifier map[string]string

func (v staticVerifier) Verify(token string) (string, time.Time, error) {
	if userID, ok := v[token]; ok {
		return userID, time.Now().Add(time.Hour), nil
	}
	return "", time.Time{}, errs.New("unknown token")
}

func newTestServer(store NotificationStore) *Server {
	auth := NewAuthenticator(staticVerifier{"tok-alice": "alice", "tok-bob": "bob"})
	return NewServer(auth, store, ServerOptions{})
}

func TestDispatchJoinLeaveThread(t *testing.T) {
	s := newTestServer(newFakeStore())
	c := newTestClient("c1", "alice")
	s.registry.Register(c)

	s.disp.Dispatch(s, c, []byte(`{"action":"join_thread","threadId":"42"}`))
	if !s.rooms.Contains("thread_42", "c1") {
		t.Fatalf("join_thread command did not take effect")
	}

	s.disp.Dispatch(s, c, []byte(`{"action":"leave_thread","threadId":"42"}`))
	if s.rooms.Contains("thread_42", "c1") {
		t.Fatalf("leave_thread command did not take effect")
	}

	// leaving an unjoined room is a no-op, not an error
	s.disp.Dispatch(s, c, []byte(`{"action":"leave_thread","threadId":"999"}`))
}

func TestDispatchMarkNotificationsRead(t *testing.T) {
	store := newFakeStore()
	store.unread["alice"] = 4
	s := newTestServer(store)

	c := newTestClient("c1", "alice")
	s.registry.Register(c)

	s.disp.Dispatch(s, c, []byte(`{"action":"mark_notifications_read"}`))

	env := recvEnvelope(t, c)
	if env.Type != EventUnreadCount {
		t.Fatalf("type = %q", env.Type)
	}
	data := env.Data.(map[string]interface{})
	if data["count"] != float64(0) {
		t.Fatalf("count = %v, want 0 after bulk mark-read", data["count"])
	}
}

func TestDispatchIgnoresGarbage(t *testing.T) {
	s := newTestServer(newFakeStore())
	c := newTestClient("c1", "alice")
	s.registry.Register(c)

	s.disp.Dispatch(s, c, []byte(`not json at all`))
	s.disp.Dispatch(s, c, []byte(`{"action":"no_such_command"}`))
	s.disp.Dispatch(s, c, []byte(`{"action":"join_thread"}`)) // missing threadId

	if s.rooms.Contains("thread_", "c1") {
		t.Fatalf("empty threadId must not create a membership")
	}
	assertNoEvent(t, c)
}
