package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parcelflow/internal/entities"
	"parcelflow/internal/service/policy"
	"parcelflow/pkg/tx"
)

type Consolidation struct {
	repository Repository
	parcels    ParcelLifecycle
	stations   StationDirectory
	authorizer Authorizer
	codes      CodeAllocator
	notifier   Notifier
	retrier    Retrier
	txManager  TxManager
	now        func() time.Time
}

func New(
	repository Repository,
	parcels ParcelLifecycle,
	stations StationDirectory,
	authorizer Authorizer,
	codes CodeAllocator,
	notifier Notifier,
	retrier Retrier,
	txManager TxManager,
) *Consolidation {
	return &Consolidation{
		repository: repository,
		parcels:    parcels,
		stations:   stations,
		authorizer: authorizer,
		codes:      codes,
		notifier:   notifier,
		retrier:    retrier,
		txManager:  txManager,
		now:        time.Now,
	}
}

func IsRetryableCreateError(err error) bool {
	return errors.Is(err, ErrBatchCodeTaken)
}

// CreateBatch создаёт рейс в статусе pending и сразу закрепляет за ним посылки.
// Посылки блокируются до проверки маршрута, так что параллельная сборка
// другого рейса из тех же посылок получит ErrAlreadyBatched или конфликт.
func (c *Consolidation) CreateBatch(ctx context.Context, actor entities.Actor, create entities.BatchCreate) (*entities.Batch, error) {
	if err := validateCreate(create); err != nil {
		return nil, err
	}

	origin, err := c.stations.GetActive(ctx, create.OriginStationID)
	if err != nil {
		return nil, fmt.Errorf("origin station: %w", err)
	}
	if _, err := c.stations.GetActive(ctx, create.DestinationStationID); err != nil {
		return nil, fmt.Errorf("destination station: %w", err)
	}

	if d := c.authorizer.AuthorizeBatchAssembly(actor, origin.ID); !d.Allowed {
		return nil, unauthorized(d)
	}

	tripDate := tripDay(create.TripDate)

	var created *entities.Batch
	err = c.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		code, err := c.codes.Allocate(ctx, *origin, tripDate)
		if err != nil {
			return fmt.Errorf("allocate batch code: %w", err)
		}

		now := c.now().UTC()
		return c.txManager.Do(ctx, func(ctx context.Context) error {
			batch, err := c.repository.Create(ctx, entities.Batch{
				ID:                   uuid.NewString(),
				Code:                 code,
				OriginStationID:      create.OriginStationID,
				DestinationStationID: create.DestinationStationID,
				TripDate:             tripDate,
				Status:               entities.BatchPending,
				CreatedAt:            now,
				UpdatedAt:            now,
			})
			if err != nil {
				return fmt.Errorf("create batch: %w", err)
			}

			added, err := c.assign(ctx, *batch, create.ParcelIDs)
			if err != nil {
				return err
			}
			batch.ParcelIDs = added

			err = c.repository.AppendHistory(ctx, entities.BatchStatusChange{
				BatchID:   batch.ID,
				To:        entities.BatchPending,
				ActorID:   actor.ID,
				ActorRole: actor.Role,
				CreatedAt: now,
			})
			if err != nil {
				return fmt.Errorf("append batch history: %w", err)
			}

			created = batch
			return nil
		})
	})
	if err != nil {
		return nil, mapTxError(err)
	}

	CreatedTotal.Inc()
	c.dispatch(ctx, []entities.StatusChanged{{
		Kind:       entities.EventKindBatch,
		ID:         created.ID,
		Reference:  created.Code,
		To:         created.Status.String(),
		ActorID:    actor.ID,
		OccurredAt: created.CreatedAt,
	}})

	return created, nil
}

func (c *Consolidation) SearchBatch(ctx context.Context, code string) (*entities.Batch, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, ErrInvalidBatchCode
	}

	batch, err := c.repository.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get batch %s: %w", code, err)
	}
	return batch, nil
}

// ListBatches табло станции, без фильтров отдаёт последние рейсы.
func (c *Consolidation) ListBatches(ctx context.Context, filter entities.BatchFilter) ([]entities.Batch, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	batches, err := c.repository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

func (c *Consolidation) AddParcels(ctx context.Context, actor entities.Actor, code string, parcelIDs []string) (*entities.Batch, error) {
	if len(parcelIDs) == 0 {
		return nil, ErrInvalidParcelIDs
	}

	return c.modifyMembers(ctx, actor, code, func(ctx context.Context, batch *entities.Batch) error {
		if _, err := c.stations.GetActive(ctx, batch.OriginStationID); err != nil {
			return fmt.Errorf("origin station: %w", err)
		}
		if _, err := c.stations.GetActive(ctx, batch.DestinationStationID); err != nil {
			return fmt.Errorf("destination station: %w", err)
		}

		added, err := c.assign(ctx, *batch, parcelIDs)
		if err != nil {
			return err
		}
		batch.ParcelIDs = append(batch.ParcelIDs, added...)
		return nil
	})
}

func (c *Consolidation) RemoveParcels(ctx context.Context, actor entities.Actor, code string, parcelIDs []string) (*entities.Batch, error) {
	if len(parcelIDs) == 0 {
		return nil, ErrInvalidParcelIDs
	}

	return c.modifyMembers(ctx, actor, code, func(ctx context.Context, batch *entities.Batch) error {
		members := make(map[string]struct{}, len(batch.ParcelIDs))
		for _, id := range batch.ParcelIDs {
			members[id] = struct{}{}
		}

		remove := unique(parcelIDs)
		for _, id := range remove {
			if _, ok := members[id]; !ok {
				return fmt.Errorf("%w: %s", ErrParcelNotInBatch, id)
			}
			delete(members, id)
		}

		released, err := c.repository.ReleaseParcels(ctx, batch.ID, remove)
		if err != nil {
			return fmt.Errorf("release parcels: %w", err)
		}
		if released != int64(len(remove)) {
			return fmt.Errorf("%w: released %d of %d parcels", ErrConflict, released, len(remove))
		}

		kept := make([]string, 0, len(members))
		for _, id := range batch.ParcelIDs {
			if _, ok := members[id]; ok {
				kept = append(kept, id)
			}
		}
		batch.ParcelIDs = kept
		return nil
	})
}

// modifyMembers общая обвязка правки состава: блокировка рейса, статус pending, полномочия сборки.
func (c *Consolidation) modifyMembers(
	ctx context.Context,
	actor entities.Actor,
	code string,
	modify func(ctx context.Context, batch *entities.Batch) error,
) (*entities.Batch, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, ErrInvalidBatchCode
	}

	var result *entities.Batch
	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		batch, err := c.repository.GetByCodeForUpdate(ctx, code)
		if err != nil {
			return fmt.Errorf("get batch %s: %w", code, err)
		}

		if batch.Status != entities.BatchPending {
			return fmt.Errorf("%w: batch %s is %s", ErrBatchNotPending, batch.Code, batch.Status)
		}
		if d := c.authorizer.AuthorizeBatchAssembly(actor, batch.OriginStationID); !d.Allowed {
			return unauthorized(d)
		}

		if err := modify(ctx, batch); err != nil {
			return err
		}

		result = batch
		return nil
	})
	if err != nil {
		return nil, mapTxError(err)
	}
	return result, nil
}

// assign проверяет маршрут и статус каждой посылки и закрепляет свободные за рейсом.
// Посылки, уже входящие в этот рейс, пропускаются.
func (c *Consolidation) assign(ctx context.Context, batch entities.Batch, parcelIDs []string) ([]string, error) {
	if len(parcelIDs) == 0 {
		return nil, nil
	}

	parcels, err := c.parcels.LockParcels(ctx, parcelIDs)
	if err != nil {
		return nil, fmt.Errorf("lock parcels: %w", err)
	}

	added := make([]string, 0, len(parcels))
	for _, p := range parcels {
		if !p.SameRoute(batch.OriginStationID, batch.DestinationStationID) {
			return nil, fmt.Errorf("%w: parcel %s", ErrRouteMismatch, p.TrackingCode)
		}
		if p.BatchID != nil {
			if *p.BatchID == batch.ID {
				continue
			}
			return nil, fmt.Errorf("%w: parcel %s", ErrAlreadyBatched, p.TrackingCode)
		}
		if !p.Status.IsBatchable() {
			return nil, fmt.Errorf("%w: parcel %s is %s", ErrParcelNotBatchable, p.TrackingCode, p.Status)
		}
		added = append(added, p.ID)
	}
	if len(added) == 0 {
		return added, nil
	}

	assigned, err := c.repository.AssignParcels(ctx, batch.ID, added)
	if err != nil {
		return nil, fmt.Errorf("assign parcels: %w", err)
	}
	if assigned != int64(len(added)) {
		return nil, fmt.Errorf("%w: assigned %d of %d parcels", ErrConflict, assigned, len(added))
	}
	return added, nil
}

func (c *Consolidation) dispatch(ctx context.Context, events []entities.StatusChanged) {
	ctx = context.WithoutCancel(ctx)
	for _, event := range events {
		c.notifier.Notify(ctx, event)
	}
}

func unauthorized(d policy.Decision) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, d.Reason)
}

func mapTxError(err error) error {
	if errors.Is(err, tx.ErrSerializationFailure) && !errors.Is(err, ErrConflict) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
