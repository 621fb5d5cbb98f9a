package notify

import (
	"sync"
)

// Registry maps a user to its single live connection.
// It is the source of truth Fanout consults before a personal push.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]*Client),
	}
}

// Register overwrites any prior entry for the user (last writer wins).
// The replaced connection stays open but no longer receives personal
// pushes through the registry's view.
func (r *Registry) Register(c *Client) {
	if c == nil || c.UserID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[c.UserID] = c
}

// Unregister removes the entry only if it still points at connID.
// No-op if the user is absent or a newer connection took over.
func (r *Registry) Unregister(userID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.byUser[userID]; ok && cur.ConnID == connID {
		delete(r.byUser, userID)
	}
}

func (r *Registry) Get(userID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byUser[userID]
	return c, ok
}

func (r *Registry) IsConnected(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUser[userID]
	return ok
}

// Count is the number of distinct registered users, not total sockets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}

// All lists the current connections (use sparingly, for system broadcast/stats).
func (r *Registry) All() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.byUser))
	for _, c := range r.byUser {
		out = append(out, c)
	}
	return out
}
