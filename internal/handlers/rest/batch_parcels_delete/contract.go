//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=batch_parcels_delete_test
package batch_parcels_delete

import (
	"context"

	"parcelflow/internal/entities"
	"parcelflow/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	RemoveParcels(ctx context.Context, actor entities.Actor, code string, parcelIDs []string) (*entities.Batch, error)
}
