package payment

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"parcelflow/internal/entities"
	"parcelflow/internal/repository"
	"parcelflow/internal/service/payment"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Get(ctx context.Context, parcelID string) (*entities.Payment, error) {
	return r.get(ctx, parcelID, false)
}

// GetForUpdate блокирует строку журнала до конца транзакции.
func (r *Repository) GetForUpdate(ctx context.Context, parcelID string) (*entities.Payment, error) {
	return r.get(ctx, parcelID, true)
}

func (r *Repository) get(ctx context.Context, parcelID string, forUpdate bool) (*entities.Payment, error) {
	builder := qb.
		Select("parcel_id", "status", "external_ref", "updated_at").
		From("parcel_payments").
		Where(sq.Eq{"parcel_id": parcelID})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected payment repository get error: %w", err)
	}

	var paymentModel PaymentDB
	err = r.querier.QueryRow(ctx, query, args...).
		Scan(
			&paymentModel.ParcelID,
			&paymentModel.Status,
			&paymentModel.ExternalRef,
			&paymentModel.UpdatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrPaymentNotFound
		}

		return nil, fmt.Errorf("unexpected payment repository get error: %w", err)
	}

	return ToDomain(&paymentModel), nil
}

func (r *Repository) GetMany(ctx context.Context, parcelIDs []string) ([]entities.Payment, error) {
	if len(parcelIDs) == 0 {
		return []entities.Payment{}, nil
	}

	query, args, err := qb.
		Select("parcel_id", "status", "external_ref", "updated_at").
		From("parcel_payments").
		Where(sq.Eq{"parcel_id": parcelIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected payment repository getmany error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected payment repository getmany error: %w", err)
	}
	defer rows.Close()

	payments := make([]entities.Payment, 0, len(parcelIDs))
	for rows.Next() {
		var paymentModel PaymentDB
		err := rows.Scan(
			&paymentModel.ParcelID,
			&paymentModel.Status,
			&paymentModel.ExternalRef,
			&paymentModel.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected payment repository getmany error: %w", err)
		}
		payments = append(payments, *ToDomain(&paymentModel))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected payment repository getmany error: %w", err)
	}

	return payments, nil
}

func (r *Repository) Upsert(ctx context.Context, p entities.Payment) error {
	paymentModel := FromDomain(p)

	query := `
		INSERT INTO parcel_payments (parcel_id, status, external_ref, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (parcel_id) DO UPDATE
		SET status = EXCLUDED.status,
			external_ref = EXCLUDED.external_ref,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.querier.Exec(
		ctx,
		query,
		paymentModel.ParcelID,
		paymentModel.Status,
		paymentModel.ExternalRef,
		paymentModel.UpdatedAt,
	)
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrForeignKeyViolation) {
			return payment.ErrParcelNotFound
		}
		return fmt.Errorf("unexpected payment repository upsert error: %w", err)
	}

	return nil
}

// MirrorParcelStatus копирует статус оплаты в карточку посылки, чтобы чтение посылки не ходило в журнал.
func (r *Repository) MirrorParcelStatus(ctx context.Context, parcelID string, status entities.PaymentStatus) error {
	query := `
		UPDATE parcels
		SET payment_status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.querier.Exec(ctx, query, parcelID, status.String())
	if err != nil {
		return fmt.Errorf("unexpected payment repository mirror error: %w", err)
	}

	if result.RowsAffected() == 0 {
		return payment.ErrParcelNotFound
	}

	return nil
}
