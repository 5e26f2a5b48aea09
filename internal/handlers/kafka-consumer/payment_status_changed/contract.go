//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=payment_status_changed_test
package payment_status_changed

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

type Ledger interface {
	ApplyStatusChange(ctx context.Context, change entities.PaymentStatusChanged) (*entities.Payment, error)
}
