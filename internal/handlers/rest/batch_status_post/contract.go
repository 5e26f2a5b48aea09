//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=batch_status_post_test
package batch_status_post

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
	AdvanceBatch(ctx context.Context, actor entities.Actor, code string, target entities.BatchStatus, notes string) (*entities.Batch, error)
}
