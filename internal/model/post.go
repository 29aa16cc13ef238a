package model

import (
	"time"
)

type Post struct {
	ID            uint64          `gorm:"primaryKey"`
	UserID        uint64          `gorm:"not null;index:idx_user_id" json:"user_id"`
	Title         string          `gorm:"type:varchar(255)" json:"title"`
	Content       string          `gorm:"not null" json:"content"`
	MediaInfo     []PostMediaItem `gorm:"type:json;serializer:json" json:"mediaInfo"`
	LikesCount    int             `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int             `gorm:"not null;default:0" json:"comments_count"`
	IsDeleted     bool            `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// 关联关系
	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (Post) TableName() string {
	return "posts"
}

type PostMediaItem struct {
	URL      string `json:"url"`
	ThumbURL string `json:"thumbUrl"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mimeType"`
}
