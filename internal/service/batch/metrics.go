package batch

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"parcelflow/internal/entities"
	"parcelflow/internal/service/parcel"
)

var AdvanceTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "batch_advance_total",
		Help: "Batch status advance requests by target status and outcome",
	},
	[]string{"target", "outcome"},
)

var AdvanceMembers = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "batch_advance_members",
		Help:    "Number of member parcels changed by a single batch advance",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	},
)

var CreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "batch_created_total",
		Help: "Batches created",
	},
)

func observeAdvance(target entities.BatchStatus, changed int, err error) {
	AdvanceTotal.WithLabelValues(target.String(), outcome(err)).Inc()
	if err == nil {
		AdvanceMembers.Observe(float64(changed))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrBatchNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, parcel.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, parcel.ErrPaymentRequired):
		return "payment_required"
	case errors.Is(err, ErrUnauthorized), errors.Is(err, parcel.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrConflict), errors.Is(err, parcel.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
