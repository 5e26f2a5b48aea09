package payment_status_changed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/IBM/sarama"

	"parcelflow/internal/service/payment"
	"parcelflow/pkg/logger"
)

type Handler struct {
	ledger                   Ledger
	log                      handlerLogger
	messageProcessingTimeout time.Duration
}

func New(log handlerLogger, ledger Ledger, timeout time.Duration) *Handler {
	handlerLog := log.With()

	return &Handler{
		ledger:                   ledger,
		log:                      handlerLog,
		messageProcessingTimeout: timeout,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				h.log.Info("payment.status.changed: claim.Messages() closed, exiting ConsumeClaim")
				return nil
			}

			shouldExit := h.messageProcessing(sess, message)
			if shouldExit {
				return nil
			}

		case <-sess.Context().Done():
			// rebalance или остановка consumer group
			h.log.Info("payment.status.changed: session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// messageProcessing возвращает true, если ConsumeClaim нужно прервать, не отмечая сообщение:
// оно придёт повторно после пересоздания сессии.
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sess.Context(), h.messageProcessingTimeout)
	defer cancel()

	var event statusChangedEvent
	err := json.Unmarshal(message.Value, &event)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
			logger.NewField("offset", message.Offset),
		).Error("payment.status.changed handler received bad message")
		sess.MarkMessage(message, "")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("parcel", event.ParcelID),
		logger.NewField("status", event.Status),
		logger.NewField("external_ref", event.ExternalRef),
		logger.NewField("offset", message.Offset),
	)

	record, err := h.ledger.ApplyStatusChange(ctx, event.toDomain())
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("payment.status.changed handler context cancelled, message will be reprocessed")
			return true

		case errors.Is(err, payment.ErrInvalidParcelID),
			errors.Is(err, payment.ErrUndefinedStatus):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("payment.status.changed handler skipped invalid event")

		case errors.Is(err, payment.ErrParcelNotFound):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("payment.status.changed handler skipped event for unknown parcel")

		case errors.Is(err, payment.ErrStaleEvent),
			errors.Is(err, payment.ErrInvalidStatusChange):
			msgLog.With(
				logger.NewField("error", err),
			).Warn("payment.status.changed handler rejected status change")

		default:
			// журнал оплат не теряет событие из-за сбоя хранилища
			msgLog.With(
				logger.NewField("error", err),
			).Error("payment.status.changed handler failed, message will be reprocessed")
			return true
		}
		sess.MarkMessage(message, "")
		return false
	}

	h.log.With(
		logger.NewField("parcel", record.ParcelID),
		logger.NewField("event_status", event.Status),
		logger.NewField("current_status", record.Status.String()),
		logger.NewField("offset", message.Offset),
	).Info("payment.status.changed: processed")

	sess.MarkMessage(message, "")
	return false
}
