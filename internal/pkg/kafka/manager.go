package kafka

import (
	"Murmur/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	analyticsConsumer sarama.ConsumerGroup
	analyticsHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	analyticsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaAnalytics.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		analyticsConsumer: analyticsConsumer,
		analyticsHandler:  NewAnalyticsHandler(),
	}, nil
}

// Start 启动所有消费者，阻塞到 ctx 取消
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaAnalytics.Topic
		log.Info("Analytics consumer started", "topic", topic)
		for {
			if err := m.analyticsConsumer.Consume(ctx, []string{topic}, m.analyticsHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.analyticsConsumer.Close(); err != nil {
		log.Error("Failed to close analytics consumer", "err", err)
	}

	return nil
}
