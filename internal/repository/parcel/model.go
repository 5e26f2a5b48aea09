package parcel

import "time"

type ParcelDB struct {
	ID                   string
	TrackingCode         string
	OriginStationID      int64
	DestinationStationID int64
	Status               string
	PaymentStatus        string
	BatchID              *string
	Payload              []byte
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type StatusChangeDB struct {
	ID         int64
	ParcelID   string
	FromStatus string
	ToStatus   string
	ActorID    string
	ActorRole  string
	Notes      string
	CreatedAt  time.Time
}

// scanner общий для pgx.Row и pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

var parcelColumns = []string{
	"id",
	"tracking_code",
	"origin_station_id",
	"destination_station_id",
	"status",
	"payment_status",
	"batch_id",
	"payload",
	"version",
	"created_at",
	"updated_at",
}

func scanParcel(row scanner) (ParcelDB, error) {
	var parcelModel ParcelDB
	err := row.Scan(
		&parcelModel.ID,
		&parcelModel.TrackingCode,
		&parcelModel.OriginStationID,
		&parcelModel.DestinationStationID,
		&parcelModel.Status,
		&parcelModel.PaymentStatus,
		&parcelModel.BatchID,
		&parcelModel.Payload,
		&parcelModel.Version,
		&parcelModel.CreatedAt,
		&parcelModel.UpdatedAt,
	)
	return parcelModel, err
}
