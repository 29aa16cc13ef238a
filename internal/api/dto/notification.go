package dto

// NotificationDTO 站内通知返回对象
type NotificationDTO struct {
	ID         string `json:"id"`
	SenderID   uint64 `json:"sender_id"`
	SenderName string `json:"sender_name"`
	AvatarURL  string `json:"avatar_url"`
	Type       string `json:"type"` // follow / like / comment / mention / system
	TargetID   string `json:"target_id"`
	Content    string `json:"content"` // 预览内容
	IsRead     bool   `json:"is_read"`
	CreatedAt  string `json:"created_at"`
}

// NotificationUnreadDTO 未读数返回
type NotificationUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}
