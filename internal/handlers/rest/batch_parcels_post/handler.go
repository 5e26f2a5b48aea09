package batch_parcels_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

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

	var parcelsDTO dto.BatchParcels
	err := json.NewDecoder(r.Body).Decode(&parcelsDTO)
	if err != nil {
		response.BadRequest(w, h.log, err)
		return
	}

	updated, err := h.service.AddParcels(r.Context(), a, mux.Vars(r)["code"], parcelsDTO.ParcelIDs)
	if err != nil {
		switch {
		case errors.Is(err, batch.ErrInvalidBatchCode),
			errors.Is(err, batch.ErrInvalidParcelIDs),
			errors.Is(err, parcel.ErrInvalidParcelID):
			response.BadRequest(w, h.log, err)
		case errors.Is(err, batch.ErrBatchNotFound),
			errors.Is(err, parcel.ErrParcelNotFound):
			response.Error(w, h.log, http.StatusNotFound, response.KindNotFound, err)
		case errors.Is(err, batch.ErrBatchNotPending):
			response.Error(w, h.log, http.StatusConflict, response.KindInvalidTransition, err)
		case errors.Is(err, batch.ErrUnauthorized):
			response.Error(w, h.log, http.StatusForbidden, response.KindUnauthorized, err)
		case errors.Is(err, batch.ErrAlreadyBatched):
			response.Error(w, h.log, http.StatusConflict, response.KindAlreadyBatched, err)
		case errors.Is(err, batch.ErrRouteMismatch):
			response.Error(w, h.log, http.StatusUnprocessableEntity, response.KindRouteMismatch, err)
		case errors.Is(err, batch.ErrParcelNotBatchable):
			response.Error(w, h.log, http.StatusUnprocessableEntity, response.KindNotBatchable, err)
		case errors.Is(err, station.ErrStationInactive):
			response.Error(w, h.log, http.StatusUnprocessableEntity, response.KindStationInactive, err)
		case errors.Is(err, batch.ErrConflict):
			response.Error(w, h.log, http.StatusConflict, response.KindConflict, err)
		default:
			response.Internal(w, h.log, err)
		}
		return
	}

	response.JSON(w, h.log, http.StatusOK, dto.BatchFromEntity(*updated))
}
