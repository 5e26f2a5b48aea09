//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=station_test
package station

import (
	"context"

	"parcelflow/internal/entities"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*entities.Station, error)
	GetAll(ctx context.Context) ([]entities.Station, error)
}
