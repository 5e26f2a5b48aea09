package payment

import "errors"

var (
	ErrInvalidParcelID     = errors.New("invalid parcel id")
	ErrUndefinedStatus     = errors.New("undefined payment status")
	ErrInitialStatus       = errors.New("initial payment status must be unpaid or pending")
	ErrInvalidStatusChange = errors.New("payment status change is not allowed")
	ErrStaleEvent          = errors.New("payment event is older than the ledger record")
	ErrPaymentNotFound     = errors.New("payment record not found")
	ErrParcelNotFound      = errors.New("parcel not found")
)
