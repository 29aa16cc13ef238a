package model

import (
	"time"
)

// DailyMetric 按天汇总的平台指标，由定时任务从 Redis 回刷
type DailyMetric struct {
	ID        uint64    `gorm:"primaryKey"`
	Day       string    `gorm:"type:varchar(10);not null;index:idx_day_metric,unique" json:"day"` // 2006-01-02
	Metric    string    `gorm:"type:varchar(50);not null;index:idx_day_metric,unique" json:"metric"`
	Value     int64     `gorm:"not null;default:0" json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (DailyMetric) TableName() string {
	return "daily_metrics"
}
