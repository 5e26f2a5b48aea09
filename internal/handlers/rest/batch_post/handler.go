package batch_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"parcelflow/internal/handlers/rest/dto"
	"parcelflow/internal/handlers/rest/response"
	"parcelflow/internal/pkg/middlewares/actor"
	"parcelflow/internal/service/batch"
	"parcelflow/internal/service/parcel"
	"parcelflow/internal/service/station"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a, ok := actor.FromContext(r.Context())
	if !ok {
		response.Unauthenticated(w, h.log)
		return
	}

	var batchCreateDTO dto.BatchCreate
	err := json.NewDecoder(r.Body).Decode(&batchCreateDTO)
	if err != nil {
		response.BadRequest(w, h.log, err)
		return
	}
	create, err := batchCreateDTO.ToEntity()
	if err != nil {
		response.BadRequest(w, h.log, err)
		return
	}

	created, err := h.service.CreateBatch(r.Context(), a, create)
	if err != nil {
		switch {
		case errors.Is(err, batch.ErrInvalidRoute),
			errors.Is(err, batch.ErrInvalidTripDate),
			errors.Is(err, parcel.ErrInvalidParcelID),
			errors.Is(err, station.ErrInvalidStationID):
			response.BadRequest(w, h.log, err)
		case errors.Is(err, station.ErrStationNotFound),
			errors.Is(err, parcel.ErrParcelNotFound):
			response.Error(w, h.log, http.StatusNotFound, response.KindNotFound, err)
		case errors.Is(err, batch.ErrUnauthorized):
			response.Error(w, h.log, http.StatusForbidden, response.KindUnauthorized, err)
		case errors.Is(err, batch.ErrAlreadyBatched):
			response.Error(w, h.log, http.StatusConflict, response.KindAlreadyBatched, err)
		case errors.Is(err, batch.ErrConflict),
			errors.Is(err, batch.ErrBatchCodeTaken):
			response.Error(w, h.log, http.StatusConflict, response.KindConflict, err)
		case errors.Is(err, batch.ErrRouteMismatch):
			response.Error(w, h.log, http.StatusUnprocessableEntity, response.KindRouteMismatch, err)
		case errors.Is(err, batch.ErrParcelNotBatchable):
			response.Error(w, h.log, http.StatusUnprocessableEntity, response.KindNotBatchable, err)
		case errors.Is(err, station.ErrStationInactive):
			response.Error(w, h.log, http.StatusUnprocessableEntity, response.KindStationInactive, err)
		default:
			response.Internal(w, h.log, err)
		}
		return
	}

	response.JSON(w, h.log, http.StatusCreated, dto.BatchFromEntity(*created))
}
