// Package dto описывает JSON тела REST API.
package dto

import "time"

// TripDateLayout формат даты рейса в запросах и ответах.
const TripDateLayout = "2006-01-02"

type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type ParcelCreate struct {
	OriginStationID      int64  `json:"origin_station_id"`
	DestinationStationID int64  `json:"destination_station_id"`
	PaymentStatus        string `json:"payment_status,omitempty"`
	SenderName           string `json:"sender_name"`
	SenderPhone          string `json:"sender_phone"`
	RecipientName        string `json:"recipient_name"`
	RecipientPhone       string `json:"recipient_phone"`
	Description          string `json:"description,omitempty"`
	DeclaredValue        int64  `json:"declared_value"`
	WeightGrams          int64  `json:"weight_grams"`
	DeliveryType         string `json:"delivery_type"`
}

type Parcel struct {
	ID                   string    `json:"id"`
	TrackingCode         string    `json:"tracking_code"`
	OriginStationID      int64     `json:"origin_station_id"`
	DestinationStationID int64     `json:"destination_station_id"`
	Status               string    `json:"status"`
	PaymentStatus        string    `json:"payment_status"`
	BatchID              *string   `json:"batch_id"`
	SenderName           string    `json:"sender_name"`
	SenderPhone          string    `json:"sender_phone"`
	RecipientName        string    `json:"recipient_name"`
	RecipientPhone       string    `json:"recipient_phone"`
	Description          string    `json:"description,omitempty"`
	DeclaredValue        int64     `json:"declared_value"`
	WeightGrams          int64     `json:"weight_grams"`
	DeliveryType         string    `json:"delivery_type"`
	Version              int64     `json:"version"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type StatusChange struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type StatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type BatchCreate struct {
	OriginStationID      int64    `json:"origin_station_id"`
	DestinationStationID int64    `json:"destination_station_id"`
	TripDate             string   `json:"trip_date"`
	ParcelIDs            []string `json:"parcel_ids"`
}

type Batch struct {
	ID                   string    `json:"id"`
	Code                 string    `json:"code"`
	OriginStationID      int64     `json:"origin_station_id"`
	DestinationStationID int64     `json:"destination_station_id"`
	TripDate             string    `json:"trip_date"`
	Status               string    `json:"status"`
	ParcelIDs            []string  `json:"parcel_ids"`
	Version              int64     `json:"version"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type BatchParcels struct {
	ParcelIDs []string `json:"parcel_ids"`
}

type BatchList struct {
	Batches []Batch `json:"batches"`
}
