package notify

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"strings"

	"ThreadsApp/logger"
	"ThreadsApp/tools/errs"
	ids "ThreadsApp/tools/ids"
	"ThreadsApp/tools/safe"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const defaultSendQueueSize = 64

// PresenceMirror reflects connect/disconnect into an external store.
// It is never consulted for delivery decisions.
type PresenceMirror interface {
	Online(userID, connID string) error
	Offline(userID string) error
}

type ServerOptions struct {
	SendQueueSize int
	Presence      PresenceMirror // optional
	CheckOrigin   func(r *http.Request) bool
}

// Server owns the websocket endpoint and wires the core together:
// authenticator, registry, room router, fanout, unread counter.
type Server struct {
	auth     *Authenticator
	registry *Registry
	rooms    *Rooms
	fanout   *Fanout
	unread   *UnreadCounter
	disp     *Dispatcher
	presence PresenceMirror

	upgrader  websocket.Upgrader
	sendQueue int
}

func NewServer(auth *Authenticator, store NotificationStore, opts ServerOptions) *Server {
	if opts.SendQueueSize <= 0 {
		opts.SendQueueSize = defaultSendQueueSize
	}
	registry := NewRegistry()
	rooms := NewRooms()
	fanout := NewFanout(registry, rooms)

	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}

	return &Server{
		auth:     auth,
		registry: registry,
		rooms:    rooms,
		fanout:   fanout,
		unread:   NewUnreadCounter(store, fanout),
		disp:     NewDispatcher(),
		presence: opts.Presence,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
		sendQueue: opts.SendQueueSize,
	}
}

func (s *Server) Registry() *Registry    { return s.registry }
func (s *Server) Rooms() *Rooms          { return s.rooms }
func (s *Server) Fanout() *Fanout        { return s.fanout }
func (s *Server) Unread() *UnreadCounter { return s.unread }

// handshakeToken reads the bearer token from the upgrade request:
// `token` query parameter first, Authorization header as fallback.
func handshakeToken(r *http.Request) string {
	if tok := strings.TrimSpace(r.URL.Query().Get("token")); tok != "" {
		return tok
	}
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if authz != "" && strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	return ""
}

// HandleWS authenticates, admits and serves one connection.
// Auth failure refuses the handshake before the upgrade, so a rejected
// socket never reaches the registry or the room router.
func (s *Server) HandleWS(c *gin.Context) {
	userID, err := s.auth.Authenticate(handshakeToken(c.Request))
	if err != nil {
		reason := ReasonInvalidToken
		var ae *AuthError
		if stderrors.As(err, &ae) {
			reason = ae.Reason
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			errs.ErrUnauthorized.WithDetail(string(reason)))
		return
	}

	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// common case: non-websocket request hit /ws
		logger.Infof("[HandleWS] upgrade error: %v", err)
		return
	}

	client := NewClient(ids.GenerateString(), userID, ws, s.sendQueue)
	s.admit(client)
	go client.writePump()

	// initial badge publish, off the read loop
	safe.Go(func() {
		res := s.unread.PublishUnreadCount(context.Background(), client.UserID)
		if res.Err != nil {
			logger.Warnf("[HandleWS] unread publish user=%s err=%v", client.UserID, res.Err)
		}
	})

	s.readLoop(client)
}

func (s *Server) admit(client *Client) {
	s.registry.Register(client)
	s.rooms.JoinPersonal(client)
	if s.presence != nil {
		if err := s.presence.Online(client.UserID, client.ConnID); err != nil {
			logger.Debug("[admit] presence mirror unavailable: " + err.Error())
		}
	}
	logger.Infof("[admit] user=%s conn=%s online=%d", client.UserID, client.ConnID, s.registry.Count())
}

func (s *Server) readLoop(client *Client) {
	defer s.teardown(client)
	for {
		mt, data, err := client.WS.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[readLoop] peer closed conn=%s", client.ConnID)
			} else if ne, ok := err.(net.Error); ok && ne.Timeout() {
				logger.Infof("[readLoop] read timeout conn=%s err=%v", client.ConnID, err)
			} else {
				logger.Infof("[readLoop] read err conn=%s err=%v", client.ConnID, err)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}
		s.disp.Dispatch(s, client, data)
	}
}

// teardown clears all state synchronously: room memberships first, then
// the registry entry (only if this connection still owns it).
func (s *Server) teardown(client *Client) {
	s.rooms.LeaveAll(client.ConnID)
	s.registry.Unregister(client.UserID, client.ConnID)
	if s.presence != nil && !s.registry.IsConnected(client.UserID) {
		if err := s.presence.Offline(client.UserID); err != nil {
			logger.Debug("[teardown] presence mirror unavailable: " + err.Error())
		}
	}
	client.Close()
	logger.Infof("[teardown] user=%s conn=%s online=%d", client.UserID, client.ConnID, s.registry.Count())
}

// HandleStats reports the number of distinct connected users.
func (s *Server) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"connectedUsers": s.registry.Count()})
}

// HandleSystemBroadcast pushes a system notice to every connected user.
// Mounted behind the bearer-auth middleware.
func (s *Server) HandleSystemBroadcast(c *gin.Context) {
	var body struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest,
			errs.NewCodeError(errs.CodeBadRequest, "message is required"))
		return
	}
	s.fanout.BroadcastSystem(body.Message)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
