package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"parcelflow/internal/entities"
	"parcelflow/internal/repository"
	"parcelflow/internal/service/batch"
	"parcelflow/internal/service/station"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const codeConstraint = "batches_code_key"

var returning = "RETURNING " + strings.Join(batchColumns, ", ")

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Create(ctx context.Context, b entities.Batch) (*entities.Batch, error) {
	batchModel := FromDomain(b)

	query, args, err := qb.
		Insert("batches").
		Columns(
			"id", "code", "origin_station_id", "destination_station_id",
			"trip_date", "status", "created_at", "updated_at",
		).
		Values(
			batchModel.ID,
			batchModel.Code,
			batchModel.OriginStationID,
			batchModel.DestinationStationID,
			batchModel.TripDate,
			batchModel.Status,
			batchModel.CreatedAt,
			batchModel.UpdatedAt,
		).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected batch repository create error: %w", err)
	}

	created, err := scanBatch(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		switch {
		case repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) &&
			repository.ConstraintName(err) == codeConstraint:
			return nil, batch.ErrBatchCodeTaken
		case repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation):
			return nil, batch.ErrConflict
		case repository.IsPgErrorWithCode(err, repository.PgErrForeignKeyViolation):
			return nil, station.ErrStationNotFound
		case repository.IsPgErrorWithCode(err, repository.PgErrCheckViolation):
			return nil, batch.ErrInvalidRoute
		}
		return nil, fmt.Errorf("unexpected batch repository create error: %w", err)
	}

	return ToDomain(&created, nil), nil
}

func (r *Repository) GetByCode(ctx context.Context, code string) (*entities.Batch, error) {
	return r.getByCode(ctx, code, false)
}

// GetByCodeForUpdate блокирует строку рейса; состав читается после блокировки.
func (r *Repository) GetByCodeForUpdate(ctx context.Context, code string) (*entities.Batch, error) {
	return r.getByCode(ctx, code, true)
}

func (r *Repository) getByCode(ctx context.Context, code string, forUpdate bool) (*entities.Batch, error) {
	builder := qb.
		Select(batchColumns...).
		From("batches").
		Where(sq.Eq{"code": code})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected batch repository get error: %w", err)
	}

	batchModel, err := scanBatch(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, batch.ErrBatchNotFound
		}

		return nil, fmt.Errorf("unexpected batch repository get error: %w", err)
	}

	members, err := r.members(ctx, batchModel.ID)
	if err != nil {
		return nil, err
	}

	return ToDomain(&batchModel, members[batchModel.ID]), nil
}

func (r *Repository) List(ctx context.Context, filter entities.BatchFilter) ([]entities.Batch, error) {
	where := sq.And{}
	if filter.OriginStationID != nil {
		where = append(where, sq.Eq{"origin_station_id": *filter.OriginStationID})
	}
	if filter.DestinationStationID != nil {
		where = append(where, sq.Eq{"destination_station_id": *filter.DestinationStationID})
	}
	if filter.TripDate != nil {
		where = append(where, sq.Eq{"trip_date": *filter.TripDate})
	}
	if filter.Status != nil {
		where = append(where, sq.Eq{"status": filter.Status.String()})
	}

	builder := qb.
		Select(batchColumns...).
		From("batches").
		OrderBy("trip_date DESC", "created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset)
	if len(where) > 0 {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected batch repository list error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected batch repository list error: %w", err)
	}
	defer rows.Close()

	batchModels := make([]BatchDB, 0, filter.Limit)
	for rows.Next() {
		batchModel, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected batch repository list error: %w", err)
		}
		batchModels = append(batchModels, batchModel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected batch repository list error: %w", err)
	}

	ids := make([]string, 0, len(batchModels))
	for _, b := range batchModels {
		ids = append(ids, b.ID)
	}
	members, err := r.members(ctx, ids...)
	if err != nil {
		return nil, err
	}

	result := make([]entities.Batch, 0, len(batchModels))
	for i := range batchModels {
		result = append(result, *ToDomain(&batchModels[i], members[batchModels[i].ID]))
	}
	return result, nil
}

// members состав рейсов одним запросом, в порядке приёма посылок.
func (r *Repository) members(ctx context.Context, batchIDs ...string) (map[string][]string, error) {
	out := make(map[string][]string, len(batchIDs))
	if len(batchIDs) == 0 {
		return out, nil
	}

	query, args, err := qb.
		Select("batch_id", "id").
		From("parcels").
		Where(sq.Eq{"batch_id": batchIDs}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected batch repository members error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected batch repository members error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var batchID, parcelID string
		if err := rows.Scan(&batchID, &parcelID); err != nil {
			return nil, fmt.Errorf("unexpected batch repository members error: %w", err)
		}
		out[batchID] = append(out[batchID], parcelID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected batch repository members error: %w", err)
	}

	return out, nil
}

func (r *Repository) UpdateStatus(
	ctx context.Context,
	id string,
	status entities.BatchStatus,
	expectedVersion int64,
) (*entities.Batch, error) {
	query, args, err := qb.
		Update("batches").
		Set("status", status.String()).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "version": expectedVersion}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected batch repository update status error: %w", err)
	}

	batchModel, err := scanBatch(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, batch.ErrConflict
		}

		return nil, fmt.Errorf("unexpected batch repository update status error: %w", err)
	}

	members, err := r.members(ctx, batchModel.ID)
	if err != nil {
		return nil, err
	}

	return ToDomain(&batchModel, members[batchModel.ID]), nil
}

func (r *Repository) AppendHistory(ctx context.Context, change entities.BatchStatusChange) error {
	changeModel := StatusChangeFromDomain(change)

	query := `
		INSERT INTO batch_status_history (batch_id, from_status, to_status, actor_id, actor_role, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(
		ctx,
		query,
		changeModel.BatchID,
		changeModel.FromStatus,
		changeModel.ToStatus,
		changeModel.ActorID,
		changeModel.ActorRole,
		changeModel.Notes,
		changeModel.CreatedAt,
	)
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrForeignKeyViolation) {
			return batch.ErrBatchNotFound
		}
		return fmt.Errorf("unexpected batch repository append history error: %w", err)
	}

	return nil
}

// AssignParcels не трогает посылки, уже закреплённые за каким-либо рейсом.
func (r *Repository) AssignParcels(ctx context.Context, batchID string, parcelIDs []string) (int64, error) {
	if len(parcelIDs) == 0 {
		return 0, nil
	}

	query, args, err := qb.
		Update("parcels").
		Set("batch_id", batchID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": parcelIDs, "batch_id": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("unexpected batch repository assign error: %w", err)
	}

	result, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("unexpected batch repository assign error: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *Repository) ReleaseParcels(ctx context.Context, batchID string, parcelIDs []string) (int64, error) {
	if len(parcelIDs) == 0 {
		return 0, nil
	}

	query, args, err := qb.
		Update("parcels").
		Set("batch_id", nil).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": parcelIDs, "batch_id": batchID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("unexpected batch repository release error: %w", err)
	}

	result, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("unexpected batch repository release error: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *Repository) ReleaseAll(ctx context.Context, batchID string) (int64, error) {
	query := `
		UPDATE parcels
		SET batch_id = NULL, updated_at = NOW()
		WHERE batch_id = $1
	`

	result, err := r.querier.Exec(ctx, query, batchID)
	if err != nil {
		return 0, fmt.Errorf("unexpected batch repository release all error: %w", err)
	}

	return result.RowsAffected(), nil
}

// CodeExists проверка кандидата кода рейса для аллокатора.
func (r *Repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.querier.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM batches WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("unexpected batch repository code exists error: %w", err)
	}
	return exists, nil
}
