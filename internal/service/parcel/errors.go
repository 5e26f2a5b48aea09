package parcel

import "errors"

var (
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrInvalidParcelID       = errors.New("invalid parcel id")
	ErrInvalidReference      = errors.New("invalid parcel reference")
	ErrInvalidStatus         = errors.New("invalid parcel status")
	ErrInvalidRoute          = errors.New("origin and destination must be different stations")
	ErrInvalidPhone          = errors.New("invalid phone")
	ErrInvalidWeight         = errors.New("weight must be positive")
	ErrInvalidDeclaredValue  = errors.New("declared value must not be negative")
	ErrInvalidDeliveryType   = errors.New("invalid delivery type")
	ErrInvalidPaymentStatus  = errors.New("initial payment status must be unpaid or pending")
	ErrNotesTooLong          = errors.New("notes are too long")

	ErrParcelNotFound    = errors.New("parcel not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPaymentRequired   = errors.New("payment must be completed before this parcel can move")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("parcel was modified concurrently")
	ErrTrackingCodeTaken = errors.New("tracking code already taken")
)
