package notify

import (
	"context"
	"encoding/json"

	"ThreadsApp/logger"
)

// Client-to-server commands accepted after authentication.
const (
	CmdMarkNotificationsRead = "mark_notifications_read"
	CmdJoinThread            = "join_thread"
	CmdLeaveThread           = "leave_thread"
)

type Command struct {
	Action   string `json:"action"`
	ThreadID string `json:"threadId,omitempty"`
}

type commandHandler func(s *Server, c *Client, cmd Command)

// Dispatcher routes inbound command frames by action.
type Dispatcher struct {
	handlers map[string]commandHandler
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{handlers: make(map[string]commandHandler)}
	d.register(CmdJoinThread, handleJoinThread)
	d.register(CmdLeaveThread, handleLeaveThread)
	d.register(CmdMarkNotificationsRead, handleMarkRead)
	return d
}

func (d *Dispatcher) register(action string, h commandHandler) {
	d.handlers[action] = h
}

func (d *Dispatcher) Dispatch(s *Server, c *Client, raw []byte) {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		sample := raw
		if len(sample) > 256 {
			sample = sample[:256]
		}
		logger.Warnf("[Dispatch] bad command frame conn=%s err=%v sample=%q", c.ConnID, err, sample)
		return
	}
	h, ok := d.handlers[cmd.Action]
	if !ok {
		logger.Warnf("[Dispatch] no handler for action=%q conn=%s", cmd.Action, c.ConnID)
		return
	}
	h(s, c, cmd)
}

func handleJoinThread(s *Server, c *Client, cmd Command) {
	s.rooms.JoinThread(c, cmd.ThreadID)
}

func handleLeaveThread(s *Server, c *Client, cmd Command) {
	s.rooms.LeaveThread(c, cmd.ThreadID)
}

func handleMarkRead(s *Server, c *Client, _ Command) {
	res := s.unread.MarkRead(context.Background(), c.UserID)
	if res.Err != nil {
		// non-fatal: badge stays stale until the next successful recompute
		logger.Warnf("[markRead] user=%s err=%v", c.UserID, res.Err)
	}
}
