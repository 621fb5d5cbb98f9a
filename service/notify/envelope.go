package notify

import (
	"encoding/json"
	"time"
)

// Event types pushed to clients.
const (
	EventNewNotification = "new_notification"
	EventUnreadCount     = "unread_count"
	EventNewThread       = "new_thread"
	EventThreadUpdate    = "thread_update"
	EventNewReply        = "new_reply"
	EventNewLike         = "new_like"
	EventSystem          = "system_notification"
)

// Envelope is the wire wrapper for every server-to-client event.
// It is built fresh per dispatch and never stored.
type Envelope struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// NewEnvelope stamps the envelope at dispatch time, not at the time the
// originating domain event was created.
func NewEnvelope(typ string, data any) Envelope {
	return Envelope{
		Type:      typ,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (e Envelope) encode() ([]byte, error) {
	return json.Marshal(e)
}

// Notification is the durable record delivered on the personal scope.
// The field names match the notifications collection.
type Notification struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	Recipient string    `bson:"recipient" json:"recipient"`
	Sender    string    `bson:"sender,omitempty" json:"sender,omitempty"`
	Kind      string    `bson:"kind" json:"kind"`
	ThreadID  string    `bson:"threadId,omitempty" json:"threadId,omitempty"`
	Text      string    `bson:"text,omitempty" json:"text,omitempty"`
	IsRead    bool      `bson:"isRead" json:"isRead"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// One payload struct per event type; the set is closed.

type UnreadCount struct {
	Count int64 `json:"count"`
}

// Thread is the summary pushed to an author's followers room.
type Thread struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

type ThreadUpdate struct {
	ThreadID   string `json:"threadId"`
	Title      string `json:"title,omitempty"`
	ReplyCount int    `json:"replyCount,omitempty"`
	LikeCount  int    `json:"likeCount,omitempty"`
}

type Reply struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewReply struct {
	ThreadID string `json:"threadId"`
	Reply    Reply  `json:"reply"`
}

type NewLike struct {
	ThreadID  string `json:"threadId"`
	UserID    string `json:"userId"`
	LikeCount int    `json:"likeCount"`
}

type SystemMessage struct {
	Message string `json:"message"`
}
