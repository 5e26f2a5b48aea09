//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=batch_parcels_post_test
package batch_parcels_post

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
	AddParcels(ctx context.Context, actor entities.Actor, code string, parcelIDs []string) (*entities.Batch, error)
}
