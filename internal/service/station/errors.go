package station

import "errors"

var (
	ErrInvalidStationID = errors.New("invalid station id")
	ErrStationNotFound  = errors.New("station not found")
	ErrStationInactive  = errors.New("station is inactive")
)
