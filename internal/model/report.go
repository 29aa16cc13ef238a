package model

import "time"

type Report struct {
	ID         uint64     `gorm:"primaryKey"`
	ReporterID uint64     `gorm:"not null;index:idx_reporter_id" json:"reporterId"`
	TargetType string     `gorm:"type:varchar(20);not null" json:"targetType"` // user / post / comment / message
	TargetID   string     `gorm:"type:varchar(64);not null" json:"targetId"`
	Reason     string     `gorm:"type:varchar(500);not null" json:"reason"`
	Status     int8       `gorm:"not null;default:0;index" json:"status"` // 0:待处理, 1:已处理, 2:已驳回
	HandledBy  uint64     `gorm:"not null;default:0" json:"handledBy"`
	HandledAt  *time.Time `json:"handledAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (Report) TableName() string {
	return "reports"
}
