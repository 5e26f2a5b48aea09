package payment_status_changed

import (
	"time"

	"parcelflow/internal/entities"
)

// statusChangedEvent сообщение топика payment.status.changed.
type statusChangedEvent struct {
	ParcelID    string    `json:"parcel_id"`
	Status      string    `json:"status"`
	ExternalRef string    `json:"external_ref"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e statusChangedEvent) toDomain() entities.PaymentStatusChanged {
	return entities.PaymentStatusChanged{
		ParcelID:    e.ParcelID,
		Status:      entities.PaymentStatus(e.Status),
		ExternalRef: e.ExternalRef,
		OccurredAt:  e.OccurredAt,
	}
}
