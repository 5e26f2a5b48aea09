package batch

import (
	"strings"
	"time"
	"unicode/utf8"

	"parcelflow/internal/entities"
)

const (
	maxNotesLength = 500

	DefaultListLimit uint64 = 50
	MaxListLimit     uint64 = 500
)

func isValidNotes(notes string) bool {
	return utf8.RuneCountInString(notes) <= maxNotesLength
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// tripDay рейс привязан к календарной дате, время суток отбрасывается.
func tripDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateCreate(create entities.BatchCreate) error {
	if create.OriginStationID <= 0 || create.DestinationStationID <= 0 {
		return ErrInvalidRoute
	}
	if create.OriginStationID == create.DestinationStationID {
		return ErrInvalidRoute
	}
	if create.TripDate.IsZero() {
		return ErrInvalidTripDate
	}
	return nil
}

func normalizeFilter(filter entities.BatchFilter) (entities.BatchFilter, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return filter, ErrInvalidStatus
	}
	if filter.TripDate != nil {
		day := tripDay(*filter.TripDate)
		filter.TripDate = &day
	}
	switch {
	case filter.Limit == 0:
		filter.Limit = DefaultListLimit
	case filter.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	}
	return filter, nil
}
