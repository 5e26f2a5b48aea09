package entities

import "time"

type EventKind string

const (
	EventKindParcel EventKind = "parcel"
	EventKindBatch  EventKind = "batch"
)

// StatusChanged уходит в диспетчер уведомлений после коммита перехода.
type StatusChanged struct {
	Kind       EventKind `json:"kind"`
	ID         string    `json:"id"`
	Reference  string    `json:"reference"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ActorID    string    `json:"actor_id"`
	Notes      string    `json:"notes,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Payment struct {
	ParcelID    string
	Status      PaymentStatus
	ExternalRef string
	UpdatedAt   time.Time
}

// PaymentStatusChanged событие внешнего платёжного процесса.
type PaymentStatusChanged struct {
	ParcelID    string
	Status      PaymentStatus
	ExternalRef string
	OccurredAt  time.Time
}
