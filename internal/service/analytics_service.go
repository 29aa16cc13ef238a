package service

import (
	"Murmur/internal/pkg/kafka"
	"context"
	"time"
)

// 行为事件类型
const (
	EventUserRegistered = "user_registered"
	EventUserLogin      = "user_login"
	EventUserOnline     = "user_online"
	EventMessageSent    = "message_sent"
	EventPostCreated    = "post_created"
	EventPostLiked      = "post_liked"
	EventCommentCreated = "comment_created"
	EventReportCreated  = "report_created"
)

// AnalyticsService 行为埋点，异步投递到 Kafka，永不阻塞调用方
type AnalyticsService interface {
	Track(ctx context.Context, eventType string, userID uint64, props map[string]string)
}

type analyticsServiceImpl struct {
	producer *kafka.AnalyticsProducer
}

func NewAnalyticsService(producer *kafka.AnalyticsProducer) AnalyticsService {
	return &analyticsServiceImpl{producer: producer}
}

func (s *analyticsServiceImpl) Track(_ context.Context, eventType string, userID uint64, props map[string]string) {
	if s.producer == nil {
		return
	}
	s.producer.Emit(&kafka.AnalyticsEvent{
		Type:       eventType,
		UserID:     userID,
		Props:      props,
		OccurredAt: time.Now(),
	})
}
