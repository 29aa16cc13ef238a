package kafka

import (
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/redis"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// AnalyticsHandler 聚合行为事件到 Redis 日计数，
// 回刷 MySQL 由定时任务根据 dirty 集合完成
type AnalyticsHandler struct {
}

func NewAnalyticsHandler() *AnalyticsHandler {
	return &AnalyticsHandler{}
}

func (s *AnalyticsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("analytics consumer setup")
	return nil
}

func (s *AnalyticsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("analytics consumer cleanup")
	return nil
}

func (s *AnalyticsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-analytics consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-analytics process batch error", "err", err)
		return err
	}
	return nil
}

func (s *AnalyticsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event AnalyticsEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// 脏数据直接跳过，重试也救不回来
		log.Error("unmarshal analytics event error", "err", err)
		return nil
	}
	if event.Type == "" {
		return nil
	}

	day := event.OccurredAt.Format("2006-01-02")
	member := day + ":" + event.Type

	if _, err := redis.Incr(ctx, consts.StatsDailyKey+member); err != nil {
		return err
	}
	return redis.SAdd(ctx, consts.StatsDirtyKey, member)
}
