package parcel

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"parcelflow/internal/entities"
)

var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "parcel_transitions_total",
		Help: "Parcel status transition requests by target status and outcome",
	},
	[]string{"target", "outcome"},
)

var CreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "parcel_created_total",
		Help: "Parcels accepted at intake by delivery type",
	},
	[]string{"delivery_type"},
)

func observeTransition(target entities.ParcelStatus, applied int, err error) {
	TransitionsTotal.WithLabelValues(target.String(), outcome(applied, err)).Inc()
}

func outcome(applied int, err error) string {
	switch {
	case err == nil && applied == 0:
		return "noop"
	case err == nil:
		return "applied"
	case errors.Is(err, ErrParcelNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrPaymentRequired):
		return "payment_required"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
