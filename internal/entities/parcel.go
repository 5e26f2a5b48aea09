package entities

import "time"

type ParcelStatus string

const (
	ParcelCreated   ParcelStatus = "created"
	ParcelInTransit ParcelStatus = "in_transit"
	ParcelArrived   ParcelStatus = "arrived"
	ParcelDelivered ParcelStatus = "delivered"
	ParcelFailed    ParcelStatus = "failed"
)

// parcelTransitions единственный источник допустимых переходов посылки.
var parcelTransitions = map[ParcelStatus][]ParcelStatus{
	ParcelCreated:   {ParcelInTransit, ParcelFailed},
	ParcelInTransit: {ParcelArrived, ParcelFailed},
	ParcelArrived:   {ParcelDelivered, ParcelFailed},
	ParcelDelivered: nil,
	ParcelFailed:    nil,
}

func (s ParcelStatus) String() string {
	return string(s)
}

func (s ParcelStatus) IsValid() bool {
	_, ok := parcelTransitions[s]
	return ok
}

func (s ParcelStatus) IsTerminal() bool {
	return s == ParcelDelivered || s == ParcelFailed
}

// parcelProgress порядок движения посылки, failed в него не входит.
var parcelProgress = map[ParcelStatus]int{
	ParcelCreated:   0,
	ParcelInTransit: 1,
	ParcelArrived:   2,
	ParcelDelivered: 3,
}

// HasReached true, если посылка уже в target, дальше него или в терминальном статусе.
func (s ParcelStatus) HasReached(target ParcelStatus) bool {
	if s == target || s.IsTerminal() {
		return true
	}
	current, ok := parcelProgress[s]
	want, wantOK := parcelProgress[target]
	return ok && wantOK && current >= want
}

// CanTransitionTo true только для непосредственного последователя.
func (s ParcelStatus) CanTransitionTo(target ParcelStatus) bool {
	for _, next := range parcelTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// RequiresPayment статусы физического перемещения закрыты до оплаты.
func (s ParcelStatus) RequiresPayment() bool {
	switch s {
	case ParcelInTransit, ParcelArrived, ParcelDelivered:
		return true
	}
	return false
}

// IsBatchable посылку можно положить в рейс только до прибытия.
func (s ParcelStatus) IsBatchable() bool {
	return s == ParcelCreated || s == ParcelInTransit
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentUnpaid, PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

type DeliveryType string

const (
	DeliveryStandard DeliveryType = "standard"
	DeliveryExpress  DeliveryType = "express"
)

const DefaultDeliveryType = DeliveryStandard

func (t DeliveryType) String() string {
	return string(t)
}

func (t DeliveryType) IsValid() bool {
	return t == DeliveryStandard || t == DeliveryExpress
}

// ParcelPayload описательные поля, логика жизненного цикла их не читает.
type ParcelPayload struct {
	SenderName     string       `json:"sender_name"`
	SenderPhone    string       `json:"sender_phone"`
	RecipientName  string       `json:"recipient_name"`
	RecipientPhone string       `json:"recipient_phone"`
	Description    string       `json:"description,omitempty"`
	DeclaredValue  int64        `json:"declared_value"`
	WeightGrams    int64        `json:"weight_grams"`
	DeliveryType   DeliveryType `json:"delivery_type"`
}

type Parcel struct {
	ID                   string
	TrackingCode         string
	OriginStationID      int64
	DestinationStationID int64
	Status               ParcelStatus
	PaymentStatus        PaymentStatus
	BatchID              *string
	Payload              ParcelPayload
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (p Parcel) SameRoute(origin, destination int64) bool {
	return p.OriginStationID == origin && p.DestinationStationID == destination
}

type ParcelCreate struct {
	OriginStationID      int64
	DestinationStationID int64
	Payload              ParcelPayload
	// PaymentStatus начальный статус оплаты, допускаются unpaid и pending.
	PaymentStatus PaymentStatus
}

// ParcelStatusChange запись аудита, From пустой для записи о приёме.
type ParcelStatusChange struct {
	ID        int64
	ParcelID  string
	From      ParcelStatus
	To        ParcelStatus
	ActorID   string
	ActorRole ActorRole
	Notes     string
	CreatedAt time.Time
}
