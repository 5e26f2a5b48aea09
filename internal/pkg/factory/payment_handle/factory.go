package payment_handle

import (
	"context"
	"fmt"
	"slices"

	"parcelflow/internal/entities"
	"parcelflow/internal/service/payment"
)

type LedgerWriter interface {
	Upsert(ctx context.Context, payment entities.Payment) error
	MirrorParcelStatus(ctx context.Context, parcelID string, status entities.PaymentStatus) error
}

// StatusHandlerFactory по целевому статусу оплаты выдаёт функцию,
// которая проверяет допустимость смены статуса и записывает её.
type StatusHandlerFactory struct {
	ledger LedgerWriter
}

func NewStatusHandlerFactory(ledger LedgerWriter) *StatusHandlerFactory {
	return &StatusHandlerFactory{
		ledger: ledger,
	}
}

func (f *StatusHandlerFactory) GetHandler(status entities.PaymentStatus) (payment.ApplyFn, error) {
	switch status {
	case entities.PaymentPending:
		return f.from(entities.PaymentUnpaid), nil
	case entities.PaymentPaid:
		return f.from(entities.PaymentUnpaid, entities.PaymentPending), nil
	case entities.PaymentUnpaid:
		// отмена или истечение ожидающего платежа
		return f.from(entities.PaymentPending), nil
	case entities.PaymentRefunded:
		return f.from(entities.PaymentPaid), nil
	default:
		return nil, fmt.Errorf("%w: %s", payment.ErrUndefinedStatus, status)
	}
}

func (f *StatusHandlerFactory) from(allowed ...entities.PaymentStatus) payment.ApplyFn {
	return func(ctx context.Context, current entities.Payment, change entities.PaymentStatusChanged) error {
		if !slices.Contains(allowed, current.Status) {
			return fmt.Errorf("%w: %s -> %s", payment.ErrInvalidStatusChange, current.Status, change.Status)
		}
		return f.write(ctx, change)
	}
}

func (f *StatusHandlerFactory) write(ctx context.Context, change entities.PaymentStatusChanged) error {
	// сначала посылка: неизвестный parcel_id отсекается до вставки в журнал
	if err := f.ledger.MirrorParcelStatus(ctx, change.ParcelID, change.Status); err != nil {
		return fmt.Errorf("mirror payment status of parcel %s: %w", change.ParcelID, err)
	}

	err := f.ledger.Upsert(ctx, entities.Payment{
		ParcelID:    change.ParcelID,
		Status:      change.Status,
		ExternalRef: change.ExternalRef,
		UpdatedAt:   change.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("write payment of parcel %s: %w", change.ParcelID, err)
	}
	return nil
}
