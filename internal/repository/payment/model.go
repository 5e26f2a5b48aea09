package payment

import "time"

type PaymentDB struct {
	ParcelID    string
	Status      string
	ExternalRef string
	UpdatedAt   time.Time
}
