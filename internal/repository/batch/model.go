package batch

import "time"

type BatchDB struct {
	ID                   string
	Code                 string
	OriginStationID      int64
	DestinationStationID int64
	TripDate             time.Time
	Status               string
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type StatusChangeDB struct {
	ID         int64
	BatchID    string
	FromStatus string
	ToStatus   string
	ActorID    string
	ActorRole  string
	Notes      string
	CreatedAt  time.Time
}

type scanner interface {
	Scan(dest ...any) error
}

var batchColumns = []string{
	"id",
	"code",
	"origin_station_id",
	"destination_station_id",
	"trip_date",
	"status",
	"version",
	"created_at",
	"updated_at",
}

func scanBatch(row scanner) (BatchDB, error) {
	var batchModel BatchDB
	err := row.Scan(
		&batchModel.ID,
		&batchModel.Code,
		&batchModel.OriginStationID,
		&batchModel.DestinationStationID,
		&batchModel.TripDate,
		&batchModel.Status,
		&batchModel.Version,
		&batchModel.CreatedAt,
		&batchModel.UpdatedAt,
	)
	return batchModel, err
}
