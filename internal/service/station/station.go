package station

import (
	"context"
	"fmt"
	"sync"

	"parcelflow/internal/entities"
)

// Directory справочник станций: снимок в памяти, промах идёт в репозиторий.
// Снимок обновляется фоновой задачей через Refresh.
type Directory struct {
	repository Repository

	mu       sync.RWMutex
	snapshot map[int64]entities.Station
}

func New(repository Repository) *Directory {
	return &Directory{
		repository: repository,
		snapshot:   make(map[int64]entities.Station),
	}
}

// Get возвращает станцию независимо от флага активности:
// исторические посылки читаются и через закрытые станции.
func (d *Directory) Get(ctx context.Context, id int64) (*entities.Station, error) {
	if id <= 0 {
		return nil, ErrInvalidStationID
	}

	d.mu.RLock()
	cached, ok := d.snapshot[id]
	d.mu.RUnlock()
	if ok {
		return &cached, nil
	}

	station, err := d.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get station %d: %w", id, err)
	}

	d.mu.Lock()
	d.snapshot[station.ID] = *station
	d.mu.Unlock()

	return station, nil
}

// GetActive для новых назначений: закрытая станция отклоняется.
func (d *Directory) GetActive(ctx context.Context, id int64) (*entities.Station, error) {
	station, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !station.Active {
		return nil, fmt.Errorf("station %s: %w", station.Code, ErrStationInactive)
	}
	return station, nil
}

// Refresh целиком заменяет снимок, возвращает число станций в нём.
func (d *Directory) Refresh(ctx context.Context) (int, error) {
	stations, err := d.repository.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load stations: %w", err)
	}

	snapshot := make(map[int64]entities.Station, len(stations))
	for _, s := range stations {
		snapshot[s.ID] = s
	}

	d.mu.Lock()
	d.snapshot = snapshot
	d.mu.Unlock()

	return len(snapshot), nil
}
