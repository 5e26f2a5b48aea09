//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=batches_get_test
package batches_get

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
	ListBatches(ctx context.Context, filter entities.BatchFilter) ([]entities.Batch, error)
}
