package notify

import (
	"encoding/json"
	"testing"
)

func recvEnvelope(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case payload := <-c.Send:
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			t.Fatalf("bad envelope payload: %v", err)
		}
		return env
	default:
		t.Fatalf("expected an event in the send queue")
		return Envelope{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case payload := <-c.Send:
		t.Fatalf("unexpected event queued: %s", payload)
	default:
	}
}

func TestRoomNames(t *testing.T) {
	if got := PersonalRoom("u1"); got != "user_u1" {
		t.Fatalf("PersonalRoom = %q", got)
	}
	if got := ThreadRoom("42"); got != "thread_42" {
		t.Fatalf("ThreadRoom = %q", got)
	}
	if got := FollowersRoom("u1"); got != "followers_u1" {
		t.Fatalf("FollowersRoom = %q", got)
	}
}

func TestRoomsJoinLeaveIdempotent(t *testing.T) {
	rooms := NewRooms()
	c := newTestClient("c1", "alice")

	rooms.JoinThread(c, "42")
	rooms.JoinThread(c, "42")
	if !rooms.Contains("thread_42", "c1") {
		t.Fatalf("c1 should be in thread_42")
	}

	rooms.Broadcast("thread_42", NewEnvelope(EventThreadUpdate, ThreadUpdate{ThreadID: "42"}))
	recvEnvelope(t, c)
	// a double join must not double-deliver
	assertNoEvent(t, c)

	rooms.LeaveThread(c, "42")
	rooms.LeaveThread(c, "42")
	if rooms.Contains("thread_42", "c1") {
		t.Fatalf("c1 should have left thread_42")
	}
}

func TestRoomsBroadcastMembersOnly(t *testing.T) {
	rooms := NewRooms()
	in := newTestClient("c1", "alice")
	out := newTestClient("c2", "bob")

	rooms.JoinThread(in, "42")
	rooms.JoinThread(out, "7")

	rooms.Broadcast("thread_42", NewEnvelope(EventNewReply, NewReply{ThreadID: "42"}))

	env := recvEnvelope(t, in)
	if env.Type != EventNewReply {
		t.Fatalf("type = %q, want %q", env.Type, EventNewReply)
	}
	if env.Timestamp == "" {
		t.Fatalf("envelope missing dispatch timestamp")
	}
	assertNoEvent(t, out)
}

func TestRoomsBroadcastEmptyRoom(t *testing.T) {
	rooms := NewRooms()
	// delivering to zero connections is a silent no-op
	rooms.Broadcast("thread_404", NewEnvelope(EventThreadUpdate, ThreadUpdate{ThreadID: "404"}))
}

func TestRoomsLeaveAllReleasesEverything(t *testing.T) {
	rooms := NewRooms()
	c := newTestClient("c1", "alice")

	rooms.JoinPersonal(c)
	rooms.JoinThread(c, "42")
	rooms.JoinFollowers(c, "bob")

	rooms.LeaveAll(c.ConnID)

	for _, room := range []string{"user_alice", "thread_42", "followers_bob"} {
		if rooms.Contains(room, "c1") {
			t.Fatalf("membership in %s leaked after LeaveAll", room)
		}
	}

	// holds even when no extra rooms were joined
	lone := newTestClient("c2", "bob")
	rooms.JoinPersonal(lone)
	rooms.LeaveAll(lone.ConnID)
	if rooms.Contains("user_bob", "c2") {
		t.Fatalf("personal membership leaked after LeaveAll")
	}
}
