package parcel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"parcelflow/internal/entities"
	"parcelflow/internal/repository"
	"parcelflow/internal/service/parcel"
	"parcelflow/internal/service/station"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const trackingCodeConstraint = "parcels_tracking_code_key"

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Create(ctx context.Context, p entities.Parcel) (*entities.Parcel, error) {
	parcelModel, err := FromDomain(p)
	if err != nil {
		return nil, err
	}

	query, args, err := qb.
		Insert("parcels").
		Columns(
			"id", "tracking_code", "origin_station_id", "destination_station_id",
			"status", "payment_status", "payload", "created_at", "updated_at",
		).
		Values(
			parcelModel.ID,
			parcelModel.TrackingCode,
			parcelModel.OriginStationID,
			parcelModel.DestinationStationID,
			parcelModel.Status,
			parcelModel.PaymentStatus,
			parcelModel.Payload,
			parcelModel.CreatedAt,
			parcelModel.UpdatedAt,
		).
		Suffix("RETURNING " + strings.Join(parcelColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository create error: %w", err)
	}

	created, err := scanParcel(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		switch {
		case repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) &&
			repository.ConstraintName(err) == trackingCodeConstraint:
			return nil, parcel.ErrTrackingCodeTaken
		case repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation):
			return nil, parcel.ErrConflict
		case repository.IsPgErrorWithCode(err, repository.PgErrForeignKeyViolation):
			return nil, station.ErrStationNotFound
		case repository.IsPgErrorWithCode(err, repository.PgErrCheckViolation):
			return nil, parcel.ErrInvalidRoute
		}
		return nil, fmt.Errorf("unexpected parcel repository create error: %w", err)
	}

	return ToDomain(&created)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Parcel, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *Repository) GetByTrackingCode(ctx context.Context, trackingCode string) (*entities.Parcel, error) {
	return r.getOne(ctx, sq.Eq{"tracking_code": trackingCode})
}

func (r *Repository) getOne(ctx context.Context, where sq.Eq) (*entities.Parcel, error) {
	query, args, err := qb.
		Select(parcelColumns...).
		From("parcels").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository get error: %w", err)
	}

	parcelModel, err := scanParcel(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, parcel.ErrParcelNotFound
		}

		return nil, fmt.Errorf("unexpected parcel repository get error: %w", err)
	}

	return ToDomain(&parcelModel)
}

// GetByIDsForUpdate блокирует строки в порядке id, чтобы параллельные
// групповые переходы с пересекающимися наборами не ловили взаимоблокировку.
func (r *Repository) GetByIDsForUpdate(ctx context.Context, ids []string) ([]entities.Parcel, error) {
	if len(ids) == 0 {
		return []entities.Parcel{}, nil
	}

	query, args, err := qb.
		Select(parcelColumns...).
		From("parcels").
		Where(sq.Eq{"id": ids}).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository lock error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository lock error: %w", err)
	}
	defer rows.Close()

	parcelModels := make([]ParcelDB, 0, len(ids))
	for rows.Next() {
		parcelModel, err := scanParcel(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected parcel repository lock error: %w", err)
		}
		parcelModels = append(parcelModels, parcelModel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected parcel repository lock error: %w", err)
	}

	return ToDomainList(parcelModels)
}

// UpdateStatus compare-and-swap по версии: проигравший гонку получает ErrConflict.
func (r *Repository) UpdateStatus(
	ctx context.Context,
	id string,
	status entities.ParcelStatus,
	expectedVersion int64,
) (*entities.Parcel, error) {
	query, args, err := qb.
		Update("parcels").
		Set("status", status.String()).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "version": expectedVersion}).
		Suffix("RETURNING " + strings.Join(parcelColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository update status error: %w", err)
	}

	parcelModel, err := scanParcel(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.missOrConflict(ctx, id)
		}

		return nil, fmt.Errorf("unexpected parcel repository update status error: %w", err)
	}

	return ToDomain(&parcelModel)
}

func (r *Repository) missOrConflict(ctx context.Context, id string) error {
	var exists bool
	err := r.querier.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM parcels WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("unexpected parcel repository update status error: %w", err)
	}
	if !exists {
		return parcel.ErrParcelNotFound
	}
	return parcel.ErrConflict
}

func (r *Repository) AppendHistory(ctx context.Context, change entities.ParcelStatusChange) error {
	changeModel := StatusChangeFromDomain(change)

	query := `
		INSERT INTO parcel_status_history (parcel_id, from_status, to_status, actor_id, actor_role, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(
		ctx,
		query,
		changeModel.ParcelID,
		changeModel.FromStatus,
		changeModel.ToStatus,
		changeModel.ActorID,
		changeModel.ActorRole,
		changeModel.Notes,
		changeModel.CreatedAt,
	)
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrForeignKeyViolation) {
			return parcel.ErrParcelNotFound
		}
		return fmt.Errorf("unexpected parcel repository append history error: %w", err)
	}

	return nil
}

func (r *Repository) GetHistory(ctx context.Context, parcelID string) ([]entities.ParcelStatusChange, error) {
	query := `
	SELECT id, parcel_id, from_status, to_status, actor_id, actor_role, notes, created_at
	FROM parcel_status_history
	WHERE parcel_id = $1
	ORDER BY id`

	rows, err := r.querier.Query(ctx, query, parcelID)
	if err != nil {
		return nil, fmt.Errorf("unexpected parcel repository get history error: %w", err)
	}
	defer rows.Close()

	history := make([]entities.ParcelStatusChange, 0, 8)
	for rows.Next() {
		var changeModel StatusChangeDB
		err := rows.Scan(
			&changeModel.ID,
			&changeModel.ParcelID,
			&changeModel.FromStatus,
			&changeModel.ToStatus,
			&changeModel.ActorID,
			&changeModel.ActorRole,
			&changeModel.Notes,
			&changeModel.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected parcel repository get history error: %w", err)
		}
		history = append(history, StatusChangeToDomain(changeModel))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected parcel repository get history error: %w", err)
	}

	return history, nil
}

// CodeExists проверка кандидата трек-номера для аллокатора.
func (r *Repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.querier.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM parcels WHERE tracking_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("unexpected parcel repository code exists error: %w", err)
	}
	return exists, nil
}
