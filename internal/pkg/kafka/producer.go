package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"parcelflow/internal/pkg/config"
	"parcelflow/pkg/logger"
)

const (
	producerFlushFrequency = 200 * time.Millisecond
	producerRetryMax       = 5
)

// NewAsyncProducer продюсер для уведомлений: подтверждение от лидера,
// ошибки отправки возвращаются в канал Errors(), успехи не возвращаются.
func NewAsyncProducer(ctx context.Context, log logger.Logger, cfg *config.Kafka) (sarama.AsyncProducer, error) {
	saramaConfig, err := NewSaramaProducerConfig(cfg.Sarama.Version)
	if err != nil {
		return nil, fmt.Errorf("build saramaConfig: %w", err)
	}

	brokers := Brokers(cfg.Brokers)
	kafkaLog := log.With(
		logger.NewField("brokers", brokers),
		logger.NewField("topic", cfg.NotificationTopic),
	)

	if err := pingKafka(ctx, kafkaLog, brokers, saramaConfig); err != nil {
		return nil, fmt.Errorf("kafka connection: %w", err)
	}

	producer, err := sarama.NewAsyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create async producer: %w", err)
	}

	return producer, nil
}

func NewSaramaProducerConfig(versionStr string) (*sarama.Config, error) {
	cfg := sarama.NewConfig()

	version, err := sarama.ParseKafkaVersion(versionStr)
	if err != nil {
		return nil, fmt.Errorf("parse kafka version %q: %w", versionStr, err)
	}
	cfg.Version = version

	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	cfg.Producer.Retry.Max = producerRetryMax
	cfg.Producer.Flush.Frequency = producerFlushFrequency
	cfg.Producer.Return.Successes = false
	cfg.Producer.Return.Errors = true

	return cfg, nil
}
