package entities

import "time"

type BatchStatus string

const (
	BatchPending   BatchStatus = "pending"
	BatchInTransit BatchStatus = "in_transit"
	BatchArrived   BatchStatus = "arrived"
	BatchCancelled BatchStatus = "cancelled"
)

var batchTransitions = map[BatchStatus][]BatchStatus{
	BatchPending:   {BatchInTransit, BatchCancelled},
	BatchInTransit: {BatchArrived, BatchCancelled},
	BatchArrived:   nil,
	BatchCancelled: nil,
}

func (s BatchStatus) String() string {
	return string(s)
}

func (s BatchStatus) IsValid() bool {
	_, ok := batchTransitions[s]
	return ok
}

func (s BatchStatus) IsTerminal() bool {
	return s == BatchArrived || s == BatchCancelled
}

func (s BatchStatus) CanTransitionTo(target BatchStatus) bool {
	for _, next := range batchTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

type Batch struct {
	ID                   string
	Code                 string
	OriginStationID      int64
	DestinationStationID int64
	TripDate             time.Time
	Status               BatchStatus
	ParcelIDs            []string
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type BatchCreate struct {
	OriginStationID      int64
	DestinationStationID int64
	TripDate             time.Time
	ParcelIDs            []string
}

// BatchFilter nil поля не участвуют в отборе.
type BatchFilter struct {
	OriginStationID      *int64
	DestinationStationID *int64
	TripDate             *time.Time
	Status               *BatchStatus
	Limit                uint64
	Offset               uint64
}

type BatchStatusChange struct {
	ID        int64
	BatchID   string
	From      BatchStatus
	To        BatchStatus
	ActorID   string
	ActorRole ActorRole
	Notes     string
	CreatedAt time.Time
}
