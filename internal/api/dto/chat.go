package dto

import "time"

// SendMessageReq 发送消息请求体。ChatID 为 0 且 TargetUserID 非 0 时
// 按单聊懒创建会话
type SendMessageReq struct {
	ChatID       uint64          `json:"chat_id"`
	TargetUserID uint64          `json:"target_user_id"`
	MsgType      int             `json:"msg_type" binding:"required"` // 1-文本, 2-图片...
	Content      string          `json:"content"`
	Attachments  []AttachmentDTO `json:"attachments"`
	ReplyTo      string          `json:"reply_to"`
}

// AttachmentDTO 附件
type AttachmentDTO struct {
	MimeType string  `json:"mime_type"`
	URL      string  `json:"url"`
	FileName string  `json:"file_name,omitempty"`
	Size     int64   `json:"size,omitempty"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// MessageDTO 消息明细响应
type MessageDTO struct {
	ID          string           `json:"id,omitempty"`
	ChatID      uint64           `json:"chat_id"`
	SenderID    uint64           `json:"sender_id"`
	MsgType     int              `json:"msg_type"`
	Content     string           `json:"content"`
	Attachments []AttachmentDTO  `json:"attachments,omitempty"`
	ReplyTo     string           `json:"reply_to,omitempty"`
	ReadBy      []ReadReceiptDTO `json:"read_by,omitempty"`
	Reactions   []ReactionDTO    `json:"reactions,omitempty"`
	IsEdited    bool             `json:"is_edited"`
	IsDeleted   bool             `json:"is_deleted"`
	IsPinned    bool             `json:"is_pinned"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// ReadReceiptDTO 已读回执
type ReadReceiptDTO struct {
	UserID uint64    `json:"user_id"`
	ReadAt time.Time `json:"read_at"`
}

// ReactionDTO 消息表态
type ReactionDTO struct {
	UserID uint64 `json:"user_id"`
	Emoji  string `json:"emoji"`
}

// ChatDTO 会话列表项响应
type ChatDTO struct {
	ChatID         uint64    `json:"chat_id"`
	Kind           int8      `json:"kind"`    // 1-单聊, 2-群聊
	PeerID         uint64    `json:"peer_id"` // 对手方ID (单聊有效)
	Name           string    `json:"name"`    // 群聊名称或对手方昵称
	AvatarURL      string    `json:"avatar_url"`
	LastMsgContent string    `json:"last_msg_content"`
	LastMsgType    int8      `json:"last_msg_type"`
	LastSenderID   uint64    `json:"last_sender_id"`
	LastMsgRead    bool      `json:"last_msg_read"`
	LastMessageAt  time.Time `json:"lastMessageAt"`
	UnreadCount    uint64    `json:"unreadCount"`
	IsMuted        bool      `json:"isMuted"`
	IsPinned       bool      `json:"isPinned"`
	PeerStatus     string    `json:"peer_status,omitempty"` // 单聊对手方在线状态
}

// CreateGroupChatReq 建群请求
type CreateGroupChatReq struct {
	Name      string   `json:"name" binding:"required" validate:"min=1,max=100"`
	MemberIDs []uint64 `json:"member_ids" binding:"required,min=1"`
}

// AddMembersReq 拉人入群
type AddMembersReq struct {
	UserIDs []uint64 `json:"user_ids" binding:"required,min=1"`
}

// EditMessageReq 编辑消息
type EditMessageReq struct {
	Content string `json:"content" binding:"required" validate:"max=5000"`
}

// ReactionReq 表态请求
type ReactionReq struct {
	Emoji string `json:"emoji" binding:"required" validate:"max=16"`
}

// HistoryReq 历史消息翻页
type HistoryReq struct {
	Cursor string `form:"cursor"`
	Limit  int64  `form:"limit,default=30" binding:"min=1,max=100"`
}

// UnreadSummaryDTO 全局未读汇总
type UnreadSummaryDTO struct {
	TotalUnread int64 `json:"total_unread"`
}
