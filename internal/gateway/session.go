package gateway

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = 50 * time.Second
	maxMessageSize = 16 * 1024
)

// Session 单条 WS 连接的状态机：connected -> authenticated。
// 认证前除 authenticate 以外的上行事件一律静默丢弃。
type Session struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// mu 保护认证、关闭状态和已加入的会话房间。
	// 读泵是 userID/authed 的唯一写入方，写泵触发的收尾逻辑经 authState 读取
	mu     sync.Mutex
	userID uint64
	authed bool
	closed bool
	joined map[uint64]struct{}

	closeOnce sync.Once
}

func NewSession(hub *Hub, conn *websocket.Conn) *Session {
	return &Session{
		id:     uuid.NewString(),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, hub.sendBufferSize),
		joined: make(map[uint64]struct{}),
	}
}

func (s *Session) ID() string { return s.id }

// Deliver 非阻塞投递，慢消费者直接丢帧
func (s *Session) Deliver(payload []byte) bool {
	select {
	case s.send <- payload:
		return true
	default:
		return false
	}
}

// Run 阻塞运行至连接关闭
func (s *Session) Run() {
	go s.writePump()
	s.readPump()
}

func (s *Session) readPump() {
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("socket read error", "socketID", s.id, "err", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			s.sendError("malformed frame")
			continue
		}
		s.dispatch(&env)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.hub.writeTimeout))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.hub.writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Session) dispatch(env *Envelope) {
	if !s.authed {
		if env.Event == EventAuthenticate {
			s.handleAuthenticate(env.Data)
		}
		// 未认证连接的其余事件不回应、不断开
		return
	}

	switch env.Event {
	case EventAuthenticate:
		// 重复认证是幂等的
		s.replyAuthenticated()
	case EventJoinChat:
		s.handleJoinChat(env.Data)
	case EventLeaveChat:
		s.handleLeaveChat(env.Data)
	case EventSendMessage:
		s.handleSendMessage(env.Data)
	case EventTypingStart:
		s.handleTyping(env.Data, true)
	case EventTypingStop:
		s.handleTyping(env.Data, false)
	default:
		s.sendError("unknown event: " + env.Event)
	}
}

func (s *Session) handleAuthenticate(data json.RawMessage) {
	var p AuthenticatePayload
	if err := json.Unmarshal(data, &p); err != nil || p.Token == "" {
		s.sendError("invalid token")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userID, err := s.hub.users.AuthenticateSocket(ctx, p.Token)
	if err != nil {
		log.Warn("socket auth rejected", "socketID", s.id, "err", err)
		s.sendError("authentication failed")
		return
	}

	if !s.completeAuth(userID) {
		// 认证返回前连接已被写泵关闭，放弃上线登记
		log.Info("socket closed during auth", "socketID", s.id)
		return
	}
	s.replyAuthenticated()
}

// completeAuth 登记认证结果并接线上线状态。
// 与 close 互斥：连接已关闭时返回 false，不得再登记在线表
func (s *Session) completeAuth(userID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.userID = userID
	s.authed = true
	s.hub.handleOnline(s)
	return true
}

// markClosed 置关闭标记，此后 completeAuth 一律失败
func (s *Session) markClosed() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) authState() (bool, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authed, s.userID
}

func (s *Session) replyAuthenticated() {
	s.sendEvent(EventAuthenticated, AuthenticatedPayload{UserID: s.userID, SocketID: s.id})
}

func (s *Session) handleJoinChat(data json.RawMessage) {
	var p ChatRefPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChatID == 0 {
		s.sendError("invalid chat")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok, err := s.hub.chats.IsMember(ctx, p.ChatID, s.userID)
	if err != nil {
		s.sendError("join failed")
		return
	}
	if !ok {
		s.sendError("not a chat member")
		return
	}

	s.hub.rooms.Join(ChatRoom(p.ChatID), s)
	s.mu.Lock()
	s.joined[p.ChatID] = struct{}{}
	s.mu.Unlock()
}

func (s *Session) handleLeaveChat(data json.RawMessage) {
	var p ChatRefPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChatID == 0 {
		return
	}

	s.hub.rooms.Leave(ChatRoom(p.ChatID), s.id)
	s.mu.Lock()
	delete(s.joined, p.ChatID)
	s.mu.Unlock()
}

func (s *Session) handleSendMessage(data json.RawMessage) {
	req, err := decodeSendMessage(data)
	if err != nil {
		s.sendError("invalid message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 落库与扇出都在服务层，回显排除本 socket
	if _, err := s.hub.chats.SendMessage(ctx, s.userID, s.id, req); err != nil {
		log.Warn("socket send message failed", "userID", s.userID, "err", err)
		s.sendError(err.Error())
	}
}

func (s *Session) handleTyping(data json.RawMessage, typing bool) {
	var p ChatRefPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChatID == 0 {
		return
	}

	// 只有加入过房间的会话才允许发打字状态
	s.mu.Lock()
	_, joined := s.joined[p.ChatID]
	s.mu.Unlock()
	if !joined {
		return
	}

	s.hub.PublishToChat(p.ChatID, EventUserTyping,
		UserTypingPayload{ChatID: p.ChatID, UserID: s.userID, Typing: typing}, s.id)
}

func (s *Session) sendEvent(event string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	payload, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		return
	}
	s.Deliver(payload)
}

func (s *Session) sendError(msg string) {
	s.sendEvent(EventError, ErrorPayload{Message: msg})
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		s.markClosed()
		s.hub.handleOffline(s)
	})
}
