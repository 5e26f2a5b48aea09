package station_refresh

import (
	"context"
	"time"

	"parcelflow/pkg/logger"
)

type Directory interface {
	Refresh(ctx context.Context) (int, error)
}

// StationRefresh перечитывает справочник станций, прогрев при старте
// заполняет снимок до приёма первых запросов.
type StationRefresh struct {
	log       logger.Logger
	directory Directory
	interval  time.Duration
}

func NewStationRefresh(log logger.Logger, directory Directory, interval time.Duration) *StationRefresh {
	return &StationRefresh{
		log:       log,
		directory: directory,
		interval:  interval,
	}
}

func (s *StationRefresh) TTL() time.Duration {
	return s.interval
}

func (s *StationRefresh) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	loaded, err := s.directory.Refresh(ctxWithTimeout)
	if err != nil {
		return err
	}

	StationsLoaded.Set(float64(loaded))
	s.log.With(
		logger.NewField("stations", loaded),
	).Info("station directory refreshed")

	return nil
}

func (s *StationRefresh) Info() string {
	return "station directory refresh"
}
