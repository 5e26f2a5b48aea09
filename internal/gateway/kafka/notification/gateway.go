package notification

import (
	"context"
	"time"

	"github.com/IBM/sarama"

	"parcelflow/internal/entities"
	"parcelflow/pkg/logger"
)

const (
	outcomeEnqueued = "enqueued"
	outcomeDropped  = "dropped"
	outcomeFailed   = "failed"
)

// DefaultEnqueueTimeout сколько Notify ждёт места в буфере продюсера.
const DefaultEnqueueTimeout = 100 * time.Millisecond

type NotificationGateway struct {
	log            gatewayLogger
	producer       producer
	topic          string
	enqueueTimeout time.Duration
}

func New(log gatewayLogger, producer producer, topic string, enqueueTimeout time.Duration) *NotificationGateway {
	if enqueueTimeout <= 0 {
		enqueueTimeout = DefaultEnqueueTimeout
	}

	return &NotificationGateway{
		log:            log.With(logger.NewField("topic", topic)),
		producer:       producer,
		topic:          topic,
		enqueueTimeout: enqueueTimeout,
	}
}

// Notify не блокирует переход дольше enqueueTimeout: при переполненном буфере
// событие отбрасывается с записью в лог и метрику.
func (g *NotificationGateway) Notify(ctx context.Context, event entities.StatusChanged) {
	kind := string(event.Kind)

	msg, err := toMessage(g.topic, event)
	if err != nil {
		NotificationsTotal.WithLabelValues(kind, outcomeDropped).Inc()
		g.log.With(logger.NewField("error", err)).Error("encode notification")
		return
	}

	timer := time.NewTimer(g.enqueueTimeout)
	defer timer.Stop()

	select {
	case g.producer.Input() <- msg:
		NotificationsTotal.WithLabelValues(kind, outcomeEnqueued).Inc()
	case <-timer.C:
		g.drop(event, "notification dropped, producer buffer is full")
	case <-ctx.Done():
		g.drop(event, "notification dropped, context cancelled")
	}
}

func (g *NotificationGateway) drop(event entities.StatusChanged, reason string) {
	NotificationsTotal.WithLabelValues(string(event.Kind), outcomeDropped).Inc()
	g.log.With(
		logger.NewField("kind", string(event.Kind)),
		logger.NewField("id", event.ID),
		logger.NewField("to", event.To),
	).Warn(reason)
}

// Run вычитывает ошибки доставки до отмены ctx или закрытия продюсера.
func (g *NotificationGateway) Run(ctx context.Context) {
	g.log.Info("notification error drain started")
	defer g.log.Info("notification error drain stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case perr, ok := <-g.producer.Errors():
			if !ok {
				return
			}
			g.report(perr)
		}
	}
}

func (g *NotificationGateway) report(perr *sarama.ProducerError) {
	kind := "unknown"
	if perr.Msg != nil {
		if k, ok := perr.Msg.Metadata.(entities.EventKind); ok {
			kind = string(k)
		}
	}
	NotificationsTotal.WithLabelValues(kind, outcomeFailed).Inc()

	fields := []logger.Field{
		logger.NewField("kind", kind),
		logger.NewField("error", perr.Err),
	}
	if perr.Msg != nil && perr.Msg.Key != nil {
		if key, err := perr.Msg.Key.Encode(); err == nil {
			fields = append(fields, logger.NewField("key", string(key)))
		}
	}
	g.log.With(fields...).Error("deliver notification")
}
