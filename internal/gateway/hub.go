package gateway

import (
	"Murmur/internal/api/dto"
	"context"
	log "log/slog"
	"time"

	json "github.com/goccy/go-json"
)

// UserGateway 网关对用户域的依赖，由 UserService 实现
type UserGateway interface {
	// AuthenticateSocket 校验 token 并返回用户 ID
	AuthenticateSocket(ctx context.Context, token string) (uint64, error)
	// SetUserStatus 持久化在线状态变更
	SetUserStatus(ctx context.Context, userID uint64, status string) error
}

// ChatGateway 网关对会话域的依赖，由 ChatService 实现
type ChatGateway interface {
	IsMember(ctx context.Context, chatID, userID uint64) (bool, error)
	// SendMessage 持久化并负责向会话房间扇出 new_message
	SendMessage(ctx context.Context, senderID uint64, senderSocketID string, req *dto.SendMessageReq) (*dto.MessageDTO, error)
}

// Hub 在线表与房间表的聚合根，服务层通过它向连接扇出事件
type Hub struct {
	presence *PresenceTable
	rooms    *RoomTable

	users UserGateway
	chats ChatGateway

	sendBufferSize int
	writeTimeout   time.Duration
}

func NewHub(sendBufferSize int, writeTimeout time.Duration) *Hub {
	if sendBufferSize <= 0 {
		sendBufferSize = 64
	}
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Hub{
		presence:       NewPresenceTable(),
		rooms:          NewRoomTable(),
		sendBufferSize: sendBufferSize,
		writeTimeout:   writeTimeout,
	}
}

// Bind 注入领域依赖，避免 wire 阶段的构造环
func (h *Hub) Bind(users UserGateway, chats ChatGateway) {
	h.users = users
	h.chats = chats
}

// PublishEvent 序列化并向房间广播一个事件
func (h *Hub) PublishEvent(room string, event string, data interface{}, excludeSocket string) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Error("marshal event payload failed", "event", event, "err", err)
		return
	}
	payload, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		log.Error("marshal event envelope failed", "event", event, "err", err)
		return
	}

	delivered := h.rooms.Publish(room, payload, excludeSocket)
	if dropped := h.rooms.MemberCount(room) - delivered; dropped > 1 || (dropped == 1 && excludeSocket == "") {
		log.Warn("slow consumers dropped event", "room", room, "event", event, "delivered", delivered)
	}
}

// PublishToUser 向用户的所有在线连接推送
func (h *Hub) PublishToUser(userID uint64, event string, data interface{}) {
	h.PublishEvent(UserRoom(userID), event, data, "")
}

// PublishToChat 向会话房间推送
func (h *Hub) PublishToChat(chatID uint64, event string, data interface{}, excludeSocket string) {
	h.PublishEvent(ChatRoom(chatID), event, data, excludeSocket)
}

func (h *Hub) IsOnline(userID uint64) bool {
	return h.presence.IsOnline(userID)
}

func (h *Hub) OnlineCount() int {
	return h.presence.OnlineCount()
}

// handleOnline 认证通过后的接线：登记在线表、加入默认房间，
// 首个连接上线时落库并广播状态变更
func (h *Hub) handleOnline(s *Session) {
	cameOnline := h.presence.Register(s.userID, s.id)

	h.rooms.Join(UserRoom(s.userID), s)
	h.rooms.Join(PresenceRoom, s)

	if cameOnline {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.users.SetUserStatus(ctx, s.userID, "online"); err != nil {
			log.Error("persist online status failed", "userID", s.userID, "err", err)
		}
		h.PublishEvent(PresenceRoom, EventUserStatusChange,
			StatusChangePayload{UserID: s.userID, Status: "online"}, s.id)
	}

	log.Info("socket authenticated", "userID", s.userID, "socketID", s.id, "cameOnline", cameOnline)
}

// handleOffline 连接关闭的收尾：摘房间、注销在线表，
// 最后一个连接断开才算真正离线
func (h *Hub) handleOffline(s *Session) {
	h.rooms.LeaveAll(s.id)

	authed, userID := s.authState()
	if !authed {
		return
	}

	wentOffline := h.presence.Unregister(userID, s.id)
	if wentOffline {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.users.SetUserStatus(ctx, userID, "offline"); err != nil {
			log.Error("persist offline status failed", "userID", userID, "err", err)
		}
		h.PublishEvent(PresenceRoom, EventUserStatusChange,
			StatusChangePayload{UserID: userID, Status: "offline"}, "")
	}

	log.Info("socket closed", "userID", userID, "socketID", s.id, "wentOffline", wentOffline)
}
