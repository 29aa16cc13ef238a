package model

import "time"

// Chat 会话主表，冗余最后一条消息摘要供列表页直读
type Chat struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind           int8      `gorm:"not null;default:1" json:"kind"`              // 1-单聊, 2-群聊
	PeerKey        *string   `gorm:"uniqueIndex;type:varchar(64)" json:"peerKey"` // 单聊去重键 uid1_uid2，群聊为 NULL
	Name           string    `gorm:"type:varchar(100)" json:"name"`               // 群聊名称
	CreatorID      uint64    `gorm:"not null;default:0" json:"creatorId"`
	LastMsgID      string    `gorm:"type:varchar(32)" json:"lastMsgId"`
	LastMsgContent string    `gorm:"type:varchar(255)" json:"lastMsgContent"`
	LastMsgType    int8      `gorm:"not null;default:1" json:"lastMsgType"`
	LastSenderID   uint64    `gorm:"not null;default:0" json:"lastSenderId"`
	LastMsgRead    bool      `gorm:"type:tinyint(1);not null;default:0" json:"lastMsgRead"` // 最后一条是否已被接收方读过
	LastMessageAt  time.Time `gorm:"index" json:"lastMessageAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Chat) TableName() string { return "chats" }

// ChatMember 会话成员表，未读数直接落列，收发路径上原子增减
type ChatMember struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID      uint64    `gorm:"uniqueIndex:idx_chat_user" json:"chatId"`
	UserID      uint64    `gorm:"uniqueIndex:idx_chat_user;index" json:"userId"`
	IsAdmin     bool      `gorm:"type:tinyint(1);not null;default:0" json:"isAdmin"`
	UnreadCount uint64    `gorm:"not null;default:0" json:"unreadCount"`
	IsMuted     int8      `gorm:"not null;default:0" json:"isMuted"`
	IsPinned    int8      `gorm:"not null;default:0" json:"isPinned"`
	IsVisible   int8      `gorm:"not null;default:1;index" json:"isVisible"` // 会话列表可见性
	JoinedAt    time.Time `json:"joinedAt"`

	Chat Chat `gorm:"foreignKey:ChatID;references:ID" json:"chat"`
}

func (ChatMember) TableName() string { return "chat_members" }

// LastMessage 会话摘要的更新载体
type LastMessage struct {
	MsgID     string
	Content   string
	MsgType   int8
	SenderID  uint64
	CreatedAt time.Time
}
