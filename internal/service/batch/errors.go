package batch

import "errors"

var (
	ErrInvalidRoute     = errors.New("origin and destination must be different stations")
	ErrInvalidTripDate  = errors.New("trip date is required")
	ErrInvalidBatchCode = errors.New("invalid batch code")
	ErrInvalidStatus    = errors.New("invalid batch status")
	ErrInvalidParcelIDs = errors.New("parcel ids are required")
	ErrNotesTooLong     = errors.New("notes are too long")

	ErrBatchNotFound      = errors.New("batch not found")
	ErrInvalidTransition  = errors.New("invalid batch status transition")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRouteMismatch      = errors.New("parcel route does not match batch route")
	ErrAlreadyBatched     = errors.New("parcel already belongs to another batch")
	ErrParcelNotBatchable = errors.New("parcel status does not allow batching")
	ErrParcelNotInBatch   = errors.New("parcel does not belong to this batch")
	ErrBatchNotPending    = errors.New("batch members can only change while pending")
	ErrConflict           = errors.New("batch was modified concurrently")
	ErrBatchCodeTaken     = errors.New("batch code already taken")
)
