package parcel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"parcelflow/internal/entities"
	"parcelflow/internal/service/policy"
	"parcelflow/pkg/tx"
)

type Lifecycle struct {
	repository Repository
	ledger     PaymentLedger
	stations   StationDirectory
	authorizer Authorizer
	codes      TrackingCodeAllocator
	notifier   Notifier
	retrier    Retrier
	txManager  TxManager
	now        func() time.Time
}

func New(
	repository Repository,
	ledger PaymentLedger,
	stations StationDirectory,
	authorizer Authorizer,
	codes TrackingCodeAllocator,
	notifier Notifier,
	retrier Retrier,
	txManager TxManager,
) *Lifecycle {
	return &Lifecycle{
		repository: repository,
		ledger:     ledger,
		stations:   stations,
		authorizer: authorizer,
		codes:      codes,
		notifier:   notifier,
		retrier:    retrier,
		txManager:  txManager,
		now:        time.Now,
	}
}

// IsRetryableCreateError отбирает ошибки приёма, которые лечатся новым трек-номером.
func IsRetryableCreateError(err error) bool {
	return errors.Is(err, ErrTrackingCodeTaken)
}

// CreateParcel принимает посылку: статус created, трек-номер от аллокатора,
// запись в платёжном журнале и первая запись аудита в одной транзакции.
// Гонка за трек-номер на вставке повторяется с новым кодом через retrier.
func (l *Lifecycle) CreateParcel(ctx context.Context, actor entities.Actor, create entities.ParcelCreate) (*entities.Parcel, error) {
	if err := validateCreate(create); err != nil {
		return nil, err
	}
	if create.Payload.DeliveryType == "" {
		create.Payload.DeliveryType = entities.DefaultDeliveryType
	}
	if create.PaymentStatus == "" {
		create.PaymentStatus = entities.PaymentUnpaid
	}

	origin, err := l.stations.GetActive(ctx, create.OriginStationID)
	if err != nil {
		return nil, fmt.Errorf("origin station: %w", err)
	}
	if _, err := l.stations.GetActive(ctx, create.DestinationStationID); err != nil {
		return nil, fmt.Errorf("destination station: %w", err)
	}

	if d := l.authorizer.AuthorizeIntake(actor, origin.ID); !d.Allowed {
		return nil, unauthorized(d)
	}

	var created *entities.Parcel
	err = l.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		trackingCode, err := l.codes.Allocate(ctx, *origin)
		if err != nil {
			return fmt.Errorf("allocate tracking code: %w", err)
		}

		now := l.now().UTC()
		return l.txManager.Do(ctx, func(ctx context.Context) error {
			parcel, err := l.repository.Create(ctx, entities.Parcel{
				ID:                   uuid.NewString(),
				TrackingCode:         trackingCode,
				OriginStationID:      create.OriginStationID,
				DestinationStationID: create.DestinationStationID,
				Status:               entities.ParcelCreated,
				PaymentStatus:        create.PaymentStatus,
				Payload:              create.Payload,
				CreatedAt:            now,
				UpdatedAt:            now,
			})
			if err != nil {
				return fmt.Errorf("create parcel: %w", err)
			}

			if err := l.ledger.Open(ctx, parcel.ID, create.PaymentStatus); err != nil {
				return fmt.Errorf("open payment ledger: %w", err)
			}

			err = l.repository.AppendHistory(ctx, entities.ParcelStatusChange{
				ParcelID:  parcel.ID,
				To:        entities.ParcelCreated,
				ActorID:   actor.ID,
				ActorRole: actor.Role,
				CreatedAt: now,
			})
			if err != nil {
				return fmt.Errorf("append parcel history: %w", err)
			}

			created = parcel
			return nil
		})
	})
	if err != nil {
		return nil, mapTxError(err)
	}

	CreatedTotal.WithLabelValues(created.Payload.DeliveryType.String()).Inc()
	l.dispatch(ctx, []entities.StatusChanged{{
		Kind:       entities.EventKindParcel,
		ID:         created.ID,
		Reference:  created.TrackingCode,
		To:         created.Status.String(),
		ActorID:    actor.ID,
		OccurredAt: created.CreatedAt,
	}})

	return created, nil
}

// GetParcel публичное отслеживание: ссылка в виде UUID ищется по id,
// всё остальное по трек-номеру.
func (l *Lifecycle) GetParcel(ctx context.Context, ref string) (*entities.Parcel, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrInvalidReference
	}

	var (
		parcel *entities.Parcel
		err    error
	)
	if isValidParcelID(ref) {
		parcel, err = l.repository.GetByID(ctx, ref)
	} else {
		parcel, err = l.repository.GetByTrackingCode(ctx, strings.ToUpper(ref))
	}
	if err != nil {
		return nil, fmt.Errorf("get parcel %s: %w", ref, err)
	}
	return parcel, nil
}

func (l *Lifecycle) GetParcelHistory(ctx context.Context, ref string) ([]entities.ParcelStatusChange, error) {
	parcel, err := l.GetParcel(ctx, ref)
	if err != nil {
		return nil, err
	}

	history, err := l.repository.GetHistory(ctx, parcel.ID)
	if err != nil {
		return nil, fmt.Errorf("get parcel %s history: %w", parcel.ID, err)
	}
	return history, nil
}

func (l *Lifecycle) dispatch(ctx context.Context, events []entities.StatusChanged) {
	// отмена запроса не должна терять уведомление об уже закоммиченном переходе
	ctx = context.WithoutCancel(ctx)
	for _, event := range events {
		l.notifier.Notify(ctx, event)
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
