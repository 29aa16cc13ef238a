package kafka

import "time"

// AnalyticsEvent 行为分析事件，生产端异步投递，消费端聚合进 Redis
type AnalyticsEvent struct {
	Type       string            `json:"type"`
	UserID     uint64            `json:"user_id"`
	Props      map[string]string `json:"props,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
