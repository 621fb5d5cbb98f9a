package notify

import (
	"sync"

	"ThreadsApp/logger"
)

// Room names are built here so callers never assemble raw topic strings.

func PersonalRoom(userID string) string { return "user_" + userID }

func ThreadRoom(threadID string) string { return "thread_" + threadID }

func FollowersRoom(userID string) string { return "followers_" + userID }

// Rooms tracks topic-scoped membership on top of live connections.
type Rooms struct {
	mu     sync.RWMutex
	byRoom map[string]map[string]*Client  // room -> conn_id -> client
	byConn map[string]map[string]struct{} // conn_id -> set of rooms
}

func NewRooms() *Rooms {
	return &Rooms{
		byRoom: make(map[string]map[string]*Client),
		byConn: make(map[string]map[string]struct{}),
	}
}

// JoinPersonal is invoked exactly once, right after a successful handshake.
func (r *Rooms) JoinPersonal(c *Client) {
	r.join(c, PersonalRoom(c.UserID))
}

func (r *Rooms) JoinThread(c *Client, threadID string) {
	if threadID == "" {
		return
	}
	r.join(c, ThreadRoom(threadID))
}

func (r *Rooms) LeaveThread(c *Client, threadID string) {
	if threadID == "" {
		return
	}
	r.leave(c.ConnID, ThreadRoom(threadID))
}

func (r *Rooms) JoinFollowers(c *Client, authorID string) {
	if authorID == "" {
		return
	}
	r.join(c, FollowersRoom(authorID))
}

func (r *Rooms) LeaveFollowers(c *Client, authorID string) {
	if authorID == "" {
		return
	}
	r.leave(c.ConnID, FollowersRoom(authorID))
}

// join is idempotent: joining an already-joined room is a no-op.
func (r *Rooms) join(c *Client, room string) {
	if c == nil || room == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.byRoom[room]
	if m == nil {
		m = make(map[string]*Client)
		r.byRoom[room] = m
	}
	m[c.ConnID] = c

	set := r.byConn[c.ConnID]
	if set == nil {
		set = make(map[string]struct{})
		r.byConn[c.ConnID] = set
	}
	set[room] = struct{}{}
}

// leave is idempotent: leaving an unjoined room is a no-op.
func (r *Rooms) leave(connID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(connID, room)
}

func (r *Rooms) leaveLocked(connID, room string) {
	if m := r.byRoom[room]; m != nil {
		delete(m, connID)
		if len(m) == 0 {
			delete(r.byRoom, room)
		}
	}
	if set := r.byConn[connID]; set != nil {
		delete(set, room)
		if len(set) == 0 {
			delete(r.byConn, connID)
		}
	}
}

// LeaveAll releases every membership held by the connection.
// Called on disconnect so nothing leaks.
func (r *Rooms) LeaveAll(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for room := range r.byConn[connID] {
		r.leaveLocked(connID, room)
	}
}

func (r *Rooms) Contains(room, connID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := r.byRoom[room]
	if m == nil {
		return false
	}
	_, ok := m[connID]
	return ok
}

func (r *Rooms) members(room string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := r.byRoom[room]
	if len(m) == 0 {
		return nil
	}
	out := make([]*Client, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}

// Broadcast delivers the envelope to every current member of the room.
// An empty room is a silent no-op, not an error.
func (r *Rooms) Broadcast(room string, env Envelope) {
	conns := r.members(room)
	if len(conns) == 0 {
		return
	}
	payload, err := env.encode()
	if err != nil {
		logger.Errorf("[Rooms] encode envelope type=%s err=%v", env.Type, err)
		return
	}
	for _, c := range conns {
		if !c.push(payload) {
			logger.Warnf("[Rooms] drop event type=%s room=%s conn=%s (slow client)", env.Type, room, c.ConnID)
		}
	}
}
