package parcel_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"parcelflow/internal/handlers/rest/dto"
	"parcelflow/internal/handlers/rest/response"
	"parcelflow/internal/pkg/middlewares/actor"
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

	var parcelCreateDTO dto.ParcelCreate
	err := json.NewDecoder(r.Body).Decode(&parcelCreateDTO)
	if err != nil {
		response.BadRequest(w, h.log, err)
		return
	}

	created, err := h.service.CreateParcel(r.Context(), a, parcelCreateDTO.ToEntity())
	if err != nil {
		switch {
		case errors.Is(err, parcel.ErrMissingRequiredFields),
			errors.Is(err, parcel.ErrInvalidRoute),
			errors.Is(err, parcel.ErrInvalidPhone),
			errors.Is(err, parcel.ErrInvalidWeight),
			errors.Is(err, parcel.ErrInvalidDeclaredValue),
			errors.Is(err, parcel.ErrInvalidDeliveryType),
			errors.Is(err, parcel.ErrInvalidPaymentStatus),
			errors.Is(err, station.ErrInvalidStationID):
			response.BadRequest(w, h.log, err)
		case errors.Is(err, station.ErrStationNotFound):
			response.Error(w, h.log, http.StatusNotFound, response.KindNotFound, err)
		case errors.Is(err, station.ErrStationInactive):
			response.Error(w, h.log, http.StatusUnprocessableEntity, response.KindStationInactive, err)
		case errors.Is(err, parcel.ErrUnauthorized):
			response.Error(w, h.log, http.StatusForbidden, response.KindUnauthorized, err)
		case errors.Is(err, parcel.ErrConflict),
			errors.Is(err, parcel.ErrTrackingCodeTaken):
			response.Error(w, h.log, http.StatusConflict, response.KindConflict, err)
		default:
			response.Internal(w, h.log, err)
		}
		return
	}

	response.JSON(w, h.log, http.StatusCreated, dto.ParcelFromEntity(*created))
}
