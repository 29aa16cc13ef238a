package gateway

import (
	"strconv"

	json "github.com/goccy/go-json"
)

// Envelope 统一的 WS 帧格式，Data 延迟解码
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// 客户端上行事件
const (
	EventAuthenticate = "authenticate"
	EventJoinChat     = "join_chat"
	EventLeaveChat    = "leave_chat"
	EventSendMessage  = "send_message"
	EventTypingStart  = "typing_start"
	EventTypingStop   = "typing_stop"
)

// 服务端下行事件
const (
	EventAuthenticated    = "authenticated"
	EventNewMessage       = "new_message"
	EventMessageRead      = "message_read"
	EventMessageUpdated   = "message_updated"
	EventMessageDeleted   = "message_deleted"
	EventReactionChanged  = "reaction_changed"
	EventUserTyping       = "user_typing"
	EventUserStatusChange = "user_status_change"
	EventNewPost          = "new_post"
	EventNotification     = "notification"
	EventError            = "error"
)

// PresenceRoom 全局在线状态广播间，所有已认证连接默认加入
const PresenceRoom = "presence"

// UserRoom 用户私有间，跨端同步与定向推送走这里
func UserRoom(userID uint64) string {
	return "user:" + strconv.FormatUint(userID, 10)
}

// ChatRoom 会话间，join_chat 后才可收到会话内事件
func ChatRoom(chatID uint64) string {
	return "chat:" + strconv.FormatUint(chatID, 10)
}

type AuthenticatePayload struct {
	Token string `json:"token"`
}

type AuthenticatedPayload struct {
	UserID   uint64 `json:"userId"`
	SocketID string `json:"socketId"`
}

type ChatRefPayload struct {
	ChatID uint64 `json:"chatId"`
}

type UserTypingPayload struct {
	ChatID uint64 `json:"chatId"`
	UserID uint64 `json:"userId"`
	Typing bool   `json:"typing"`
}

type StatusChangePayload struct {
	UserID uint64 `json:"userId"`
	Status string `json:"status"`
}

type MessageReadPayload struct {
	ChatID     uint64   `json:"chatId"`
	ReaderID   uint64   `json:"readerId"`
	MessageIDs []string `json:"messageIds"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
