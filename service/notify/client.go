package notify

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeDeadline = 5 * time.Second

// Client is one live browser connection.
// A single writer goroutine consumes Send; everything else only enqueues.
type Client struct {
	ConnID string
	UserID string
	WS     *websocket.Conn
	Send   chan []byte

	EstablishedAt time.Time

	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(connID, userID string, ws *websocket.Conn, sendQueueSize int) *Client {
	return &Client{
		ConnID:        connID,
		UserID:        userID,
		WS:            ws,
		Send:          make(chan []byte, sendQueueSize),
		EstablishedAt: time.Now(),
		done:          make(chan struct{}),
	}
}

// push enqueues a payload without blocking.
// A full queue means a slow client; the event is dropped.
func (c *Client) push(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// writePump is the single writer for the socket.
func (c *Client) writePump() {
	defer closeQuiet(c.WS)
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.Send:
			if err := c.WS.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				return
			}
			if err := c.WS.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

// Close is idempotent; it stops the writer and closes the socket.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		closeQuiet(c.WS)
	})
}

func closeQuiet(ws *websocket.Conn) {
	if ws != nil {
		_ = ws.Close()
	}
}
