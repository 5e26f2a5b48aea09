package notification

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"parcelflow/internal/entities"
)

const headerEventKind = "event-kind"

// toMessage ключ сообщения id посылки или рейса, порядок событий одной сущности
// сохраняется хеш-партиционером.
func toMessage(topic string, event entities.StatusChanged) (*sarama.ProducerMessage, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event %s: %w", event.Kind, event.ID, err)
	}

	return &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.ID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerEventKind), Value: []byte(event.Kind)},
		},
		Timestamp: event.OccurredAt,
		Metadata:  event.Kind,
	}, nil
}
