package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message MongoDB 消息明细模型
type Message struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatID      uint64             `bson:"chat_id" json:"chatId"`                   // 关联 MySQL 的会话 ID
	SenderID    uint64             `bson:"sender_id" json:"senderId"`               // 发送者 UID
	MsgType     int8               `bson:"msg_type" json:"msgType"`                 // 1-文本, 2-图片, 3-语音, 4-文件, 5-系统
	Content     string             `bson:"content" json:"content"`                  // 文本内容或消息预览
	Attachments []Attachment       `bson:"attachments,omitempty" json:"attachments"` // 结构化附件
	ReplyTo     string             `bson:"reply_to,omitempty" json:"replyTo"`       // 被回复的消息 ID
	ReadBy      []ReadReceipt      `bson:"read_by,omitempty" json:"readBy"`         // 已读回执列表
	Reactions   []Reaction         `bson:"reactions,omitempty" json:"reactions"`    // 每个参与者至多一条生效表态
	IsEdited    bool               `bson:"is_edited" json:"isEdited"`
	EditedAt    *time.Time         `bson:"edited_at,omitempty" json:"editedAt"`
	IsDeleted   bool               `bson:"is_deleted" json:"isDeleted"`
	DeletedAt   *time.Time         `bson:"deleted_at,omitempty" json:"deletedAt"`
	IsPinned    bool               `bson:"is_pinned" json:"isPinned"`
	PinnedAt    *time.Time         `bson:"pinned_at,omitempty" json:"pinnedAt"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// Attachment 附件
type Attachment struct {
	MimeType string  `bson:"mime_type" json:"mime_type"`
	MediaURL string  `bson:"url" json:"url"`
	FileName string  `bson:"file_name,omitempty" json:"file_name"`
	Size     int64   `bson:"size,omitempty" json:"size"`
	Width    int     `bson:"width,omitempty" json:"width"`
	Height   int     `bson:"height,omitempty" json:"height"`
	Duration float64 `bson:"duration,omitempty" json:"duration"`
}

// ReadReceipt 已读回执
type ReadReceipt struct {
	UserID uint64    `bson:"user_id" json:"userId"`
	ReadAt time.Time `bson:"read_at" json:"readAt"`
}

// Reaction 消息表态
type Reaction struct {
	UserID    uint64    `bson:"user_id" json:"userId"`
	Emoji     string    `bson:"emoji" json:"emoji"`
	ReactedAt time.Time `bson:"reacted_at" json:"reactedAt"`
}
