package notify

import (
	"ThreadsApp/logger"
)

// Fanout is the write API the rest of the application pushes events through.
// Delivery is best-effort and at-most-once: a missing recipient is a normal,
// silent outcome, never an error, and nothing here blocks on persistence.
type Fanout struct {
	registry *Registry
	rooms    *Rooms
}

func NewFanout(registry *Registry, rooms *Rooms) *Fanout {
	return &Fanout{registry: registry, rooms: rooms}
}

// SendToUser delivers only if the registry has a live connection for the
// user. Returns whether the envelope was handed to the socket queue.
func (f *Fanout) SendToUser(userID string, env Envelope) bool {
	c, ok := f.registry.Get(userID)
	if !ok {
		return false
	}
	payload, err := env.encode()
	if err != nil {
		logger.Errorf("[Fanout] encode envelope type=%s err=%v", env.Type, err)
		return false
	}
	return c.push(payload)
}

// SendToThread broadcasts to the thread room regardless of its size.
func (f *Fanout) SendToThread(threadID string, env Envelope) {
	f.rooms.Broadcast(ThreadRoom(threadID), env)
}

// SendNotification pushes a durable notification record to its recipient.
func (f *Fanout) SendNotification(userID string, n Notification) bool {
	return f.SendToUser(userID, NewEnvelope(EventNewNotification, n))
}

// NotifyFollowers announces a new thread to the author's followers room.
func (f *Fanout) NotifyFollowers(authorID string, thread Thread) {
	f.rooms.Broadcast(FollowersRoom(authorID), NewEnvelope(EventNewThread, thread))
}

func (f *Fanout) NotifyThreadUpdate(threadID string, update ThreadUpdate) {
	update.ThreadID = threadID
	f.SendToThread(threadID, NewEnvelope(EventThreadUpdate, update))
}

func (f *Fanout) NotifyNewReply(threadID string, reply Reply) {
	f.SendToThread(threadID, NewEnvelope(EventNewReply, NewReply{ThreadID: threadID, Reply: reply}))
}

func (f *Fanout) NotifyNewLike(threadID, userID string, likeCount int) {
	f.SendToThread(threadID, NewEnvelope(EventNewLike, NewLike{ThreadID: threadID, UserID: userID, LikeCount: likeCount}))
}

// BroadcastSystem pushes a system notice to every connected user.
func (f *Fanout) BroadcastSystem(message string) {
	env := NewEnvelope(EventSystem, SystemMessage{Message: message})
	payload, err := env.encode()
	if err != nil {
		logger.Errorf("[Fanout] encode envelope type=%s err=%v", env.Type, err)
		return
	}
	for _, c := range f.registry.All() {
		if !c.push(payload) {
			logger.Warnf("[Fanout] drop system notice conn=%s (slow client)", c.ConnID)
		}
	}
}
