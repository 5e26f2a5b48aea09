package station

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"parcelflow/internal/entities"
	"parcelflow/internal/service/station"
)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.Station, error) {
	query := `SELECT id, code, name, active, created_at, updated_at
		FROM stations
		WHERE id = $1`

	var stationModel StationDB
	err := r.querier.QueryRow(ctx, query, id).
		Scan(
			&stationModel.ID,
			&stationModel.Code,
			&stationModel.Name,
			&stationModel.Active,
			&stationModel.CreatedAt,
			&stationModel.UpdatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, station.ErrStationNotFound
		}

		return nil, fmt.Errorf("unexpected station repository getbyid error: %w", err)
	}

	return ToDomain(&stationModel), nil
}

func (r *Repository) GetAll(ctx context.Context) ([]entities.Station, error) {
	query := `
	SELECT id, code, name, active, created_at, updated_at
	FROM stations
	ORDER BY id`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unexpected station repository getall error: %w", err)
	}
	defer rows.Close()

	// станций в сети десятки, не тысячи
	stationModels := make([]StationDB, 0, 32)
	for rows.Next() {
		var stationModel StationDB
		err := rows.Scan(
			&stationModel.ID,
			&stationModel.Code,
			&stationModel.Name,
			&stationModel.Active,
			&stationModel.CreatedAt,
			&stationModel.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected station repository getall error: %w", err)
		}
		stationModels = append(stationModels, stationModel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected station repository getall error: %w", err)
	}

	return ToDomainList(stationModels), nil
}
