//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=parcel_test
package parcel

import (
	"context"

	"parcelflow/internal/entities"
	"parcelflow/internal/service/policy"
)

type Repository interface {
	Create(ctx context.Context, parcel entities.Parcel) (*entities.Parcel, error)
	GetByID(ctx context.Context, id string) (*entities.Parcel, error)
	GetByTrackingCode(ctx context.Context, trackingCode string) (*entities.Parcel, error)
	GetByIDsForUpdate(ctx context.Context, ids []string) ([]entities.Parcel, error)
	UpdateStatus(ctx context.Context, id string, status entities.ParcelStatus, expectedVersion int64) (*entities.Parcel, error)
	AppendHistory(ctx context.Context, change entities.ParcelStatusChange) error
	GetHistory(ctx context.Context, parcelID string) ([]entities.ParcelStatusChange, error)
}

type PaymentLedger interface {
	GetStatuses(ctx context.Context, parcelIDs []string) (map[string]entities.PaymentStatus, error)
	Open(ctx context.Context, parcelID string, status entities.PaymentStatus) error
}

type StationDirectory interface {
	GetActive(ctx context.Context, id int64) (*entities.Station, error)
}

type Authorizer interface {
	AuthorizeParcel(actor entities.Actor, parcel entities.Parcel, target entities.ParcelStatus) policy.Decision
	AuthorizeIntake(actor entities.Actor, originStationID int64) policy.Decision
}

type TrackingCodeAllocator interface {
	Allocate(ctx context.Context, origin entities.Station) (string, error)
}

// Notifier fire-and-forget, ошибки доставки логирует сам диспетчер.
type Notifier interface {
	Notify(ctx context.Context, event entities.StatusChanged)
}

type Retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
