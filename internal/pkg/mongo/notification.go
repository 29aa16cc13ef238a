package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification 站内通知，落在 MongoDB 的 notifications 集合
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"`
	SenderID   uint64             `bson:"sender_id" json:"senderId"` // 0 表示系统通知
	Type       string             `bson:"type" json:"type"`          // follow / like / comment / mention / system
	TargetID   string             `bson:"target_id,omitempty" json:"targetId"`
	Content    string             `bson:"content" json:"content"`
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
