package kafka

import (
	"Murmur/internal/api/config"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// AnalyticsProducer 行为事件异步生产者，投递失败只记日志不阻塞业务
type AnalyticsProducer struct {
	producer sarama.AsyncProducer
	topic    string
}

func NewAnalyticsProducer(cfg *config.Config) (*AnalyticsProducer, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	producer, err := sarama.NewAsyncProducer(cfg.Kafka.Brokers, saramaCfg)
	if err != nil {
		return nil, err
	}

	p := &AnalyticsProducer{
		producer: producer,
		topic:    cfg.KafkaAnalytics.Topic,
	}

	go func() {
		for err := range producer.Errors() {
			log.Error("analytics event delivery failed", "err", err)
		}
	}()

	return p, nil
}

// Emit 投递一条事件
func (p *AnalyticsProducer) Emit(event *AnalyticsEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		log.Error("marshal analytics event failed", "type", event.Type, "err", err)
		return
	}

	p.producer.Input() <- &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Type),
		Value: sarama.ByteEncoder(value),
	}
}

func (p *AnalyticsProducer) Close() error {
	return p.producer.Close()
}
