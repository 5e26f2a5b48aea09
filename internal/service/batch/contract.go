//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=batch_test
package batch

import (
	"context"
	"time"

	"parcelflow/internal/entities"
	"parcelflow/internal/service/parcel"
	"parcelflow/internal/service/policy"
)

type Repository interface {
	Create(ctx context.Context, batch entities.Batch) (*entities.Batch, error)
	GetByCode(ctx context.Context, code string) (*entities.Batch, error)
	GetByCodeForUpdate(ctx context.Context, code string) (*entities.Batch, error)
	List(ctx context.Context, filter entities.BatchFilter) ([]entities.Batch, error)
	UpdateStatus(ctx context.Context, id string, status entities.BatchStatus, expectedVersion int64) (*entities.Batch, error)
	AppendHistory(ctx context.Context, change entities.BatchStatusChange) error
	// AssignParcels проставляет batch_id только свободным посылкам и возвращает число затронутых строк.
	AssignParcels(ctx context.Context, batchID string, parcelIDs []string) (int64, error)
	ReleaseParcels(ctx context.Context, batchID string, parcelIDs []string) (int64, error)
	ReleaseAll(ctx context.Context, batchID string) (int64, error)
}

type ParcelLifecycle interface {
	LockParcels(ctx context.Context, ids []string) ([]entities.Parcel, error)
	TransitionMany(ctx context.Context, actor entities.Actor, req parcel.BulkRequest) (*parcel.BulkResult, error)
}

type Authorizer interface {
	AuthorizeBatch(actor entities.Actor, batch entities.Batch, target entities.BatchStatus) policy.Decision
	AuthorizeBatchAssembly(actor entities.Actor, originStationID int64) policy.Decision
}

type StationDirectory interface {
	GetActive(ctx context.Context, id int64) (*entities.Station, error)
}

type CodeAllocator interface {
	Allocate(ctx context.Context, origin entities.Station, tripDate time.Time) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, event entities.StatusChanged)
}

type Retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
