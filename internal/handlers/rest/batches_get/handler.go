package batches_get

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"parcelflow/internal/entities"
	"parcelflow/internal/handlers/rest/dto"
	"parcelflow/internal/handlers/rest/response"
	"parcelflow/internal/service/batch"
)

// Handler табло станции: фильтры приходят query-параметрами, все необязательные.
type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		service: service,
		log:     handlerLog,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		response.BadRequest(w, h.log, err)
		return
	}

	batches, err := h.service.ListBatches(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, batch.ErrInvalidStatus):
			response.BadRequest(w, h.log, err)
		default:
			response.Internal(w, h.log, err)
		}
		return
	}

	response.JSON(w, h.log, http.StatusOK, dto.BatchList{Batches: dto.BatchesFromEntities(batches)})
}

func parseFilter(q url.Values) (entities.BatchFilter, error) {
	var filter entities.BatchFilter

	if v := q.Get("origin_station_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("origin_station_id: %w", err)
		}
		filter.OriginStationID = &id
	}
	if v := q.Get("destination_station_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("destination_station_id: %w", err)
		}
		filter.DestinationStationID = &id
	}
	if v := q.Get("trip_date"); v != "" {
		day, err := dto.ParseTripDate(v)
		if err != nil {
			return filter, err
		}
		filter.TripDate = &day
	}
	if v := q.Get("status"); v != "" {
		status := entities.BatchStatus(v)
		filter.Status = &status
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("limit: %w", err)
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("offset: %w", err)
		}
		filter.Offset = offset
	}

	return filter, nil
}
