//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=payment_test
package payment

import (
	"context"

	"parcelflow/internal/entities"
)

type Repository interface {
	Get(ctx context.Context, parcelID string) (*entities.Payment, error)
	GetForUpdate(ctx context.Context, parcelID string) (*entities.Payment, error)
	GetMany(ctx context.Context, parcelIDs []string) ([]entities.Payment, error)
	Upsert(ctx context.Context, payment entities.Payment) error
}

type (
	ApplyFn        func(ctx context.Context, current entities.Payment, change entities.PaymentStatusChanged) error
	HandlerFactory interface {
		GetHandler(status entities.PaymentStatus) (ApplyFn, error)
	}
)

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
