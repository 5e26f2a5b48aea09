package parcel_status_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"parcelflow/internal/entities"
	"parcelflow/internal/handlers/rest/dto"
	"parcelflow/internal/handlers/rest/response"
	"parcelflow/internal/pkg/middlewares/actor"
	"parcelflow/internal/service/parcel"
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

	var statusDTO dto.StatusRequest
	err := json.NewDecoder(r.Body).Decode(&statusDTO)
	if err != nil {
		response.BadRequest(w, h.log, err)
		return
	}

	updated, err := h.service.RequestTransition(
		r.Context(),
		a,
		mux.Vars(r)["id"],
		entities.ParcelStatus(statusDTO.Status),
		statusDTO.Notes,
	)
	if err != nil {
		switch {
		case errors.Is(err, parcel.ErrInvalidStatus),
			errors.Is(err, parcel.ErrNotesTooLong):
			response.BadRequest(w, h.log, err)
		case errors.Is(err, parcel.ErrParcelNotFound):
			response.Error(w, h.log, http.StatusNotFound, response.KindNotFound, err)
		case errors.Is(err, parcel.ErrInvalidTransition):
			response.Error(w, h.log, http.StatusConflict, response.KindInvalidTransition, err)
		case errors.Is(err, parcel.ErrPaymentRequired):
			response.Error(w, h.log, http.StatusPaymentRequired, response.KindPaymentRequired, err)
		case errors.Is(err, parcel.ErrUnauthorized):
			response.Error(w, h.log, http.StatusForbidden, response.KindUnauthorized, err)
		case errors.Is(err, parcel.ErrConflict):
			response.Error(w, h.log, http.StatusConflict, response.KindConflict, err)
		default:
			response.Internal(w, h.log, err)
		}
		return
	}

	response.JSON(w, h.log, http.StatusOK, dto.ParcelFromEntity(*updated))
}
