//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=parcel_status_post_test
package parcel_status_post

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
	RequestTransition(ctx context.Context, actor entities.Actor, parcelID string, target entities.ParcelStatus, notes string) (*entities.Parcel, error)
}
