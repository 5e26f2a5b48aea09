//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=batch_post_test
package batch_post

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
	CreateBatch(ctx context.Context, actor entities.Actor, create entities.BatchCreate) (*entities.Batch, error)
}
