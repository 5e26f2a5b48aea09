package entities

import "time"

type Station struct {
	ID        int64
	Code      string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
