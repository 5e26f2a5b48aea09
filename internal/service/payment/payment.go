package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parcelflow/internal/entities"
)

// Ledger фасад платёжного журнала. Сам сервис никогда не помечает оплату paid,
// статус приходит из внешнего платёжного процесса через ApplyStatusChange.
type Ledger struct {
	repository    Repository
	statusFactory HandlerFactory
	txManager     TxManager
}

func New(repository Repository, statusFactory HandlerFactory, txManager TxManager) *Ledger {
	return &Ledger{
		repository:    repository,
		statusFactory: statusFactory,
		txManager:     txManager,
	}
}

// GetStatus отсутствие записи в журнале означает unpaid.
func (l *Ledger) GetStatus(ctx context.Context, parcelID string) (entities.PaymentStatus, error) {
	if !isValidParcelID(parcelID) {
		return "", ErrInvalidParcelID
	}

	payment, err := l.repository.Get(ctx, parcelID)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			return entities.PaymentUnpaid, nil
		}
		return "", fmt.Errorf("get payment of parcel %s: %w", parcelID, err)
	}
	return payment.Status, nil
}

func (l *Ledger) GetStatuses(ctx context.Context, parcelIDs []string) (map[string]entities.PaymentStatus, error) {
	statuses := make(map[string]entities.PaymentStatus, len(parcelIDs))
	if len(parcelIDs) == 0 {
		return statuses, nil
	}

	payments, err := l.repository.GetMany(ctx, parcelIDs)
	if err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}

	for _, id := range parcelIDs {
		statuses[id] = entities.PaymentUnpaid
	}
	for _, p := range payments {
		statuses[p.ParcelID] = p.Status
	}
	return statuses, nil
}

// Open заводит запись журнала при приёме посылки.
func (l *Ledger) Open(ctx context.Context, parcelID string, status entities.PaymentStatus) error {
	if !isValidParcelID(parcelID) {
		return ErrInvalidParcelID
	}
	if status != entities.PaymentUnpaid && status != entities.PaymentPending {
		return fmt.Errorf("%w: %s", ErrInitialStatus, status)
	}

	err := l.repository.Upsert(ctx, entities.Payment{
		ParcelID:  parcelID,
		Status:    status,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("open payment of parcel %s: %w", parcelID, err)
	}
	return nil
}

// ApplyStatusChange применяет событие платёжного процесса: запись журнала
// и зеркальный payment_status посылки меняются в одной транзакции.
// Повтор того же статуса ничего не делает, событие старше записи отклоняется.
func (l *Ledger) ApplyStatusChange(ctx context.Context, change entities.PaymentStatusChanged) (*entities.Payment, error) {
	if !isValidParcelID(change.ParcelID) {
		return nil, ErrInvalidParcelID
	}

	applyFn, err := l.statusFactory.GetHandler(change.Status)
	if err != nil {
		return nil, err
	}

	if change.OccurredAt.IsZero() {
		change.OccurredAt = time.Now().UTC()
	}

	var result entities.Payment
	err = l.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := l.repository.GetForUpdate(ctx, change.ParcelID)
		switch {
		case errors.Is(err, ErrPaymentNotFound):
			current = &entities.Payment{ParcelID: change.ParcelID, Status: entities.PaymentUnpaid}
		case err != nil:
			return fmt.Errorf("get payment of parcel %s: %w", change.ParcelID, err)
		}

		if !current.UpdatedAt.IsZero() && change.OccurredAt.Before(current.UpdatedAt) {
			return fmt.Errorf("%w: parcel %s", ErrStaleEvent, change.ParcelID)
		}

		if current.Status == change.Status {
			result = *current
			return nil
		}

		if err := applyFn(ctx, *current, change); err != nil {
			return err
		}

		result = entities.Payment{
			ParcelID:    change.ParcelID,
			Status:      change.Status,
			ExternalRef: change.ExternalRef,
			UpdatedAt:   change.OccurredAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}
