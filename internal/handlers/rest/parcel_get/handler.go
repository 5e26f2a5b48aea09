package parcel_get

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"parcelflow/internal/handlers/rest/dto"
	"parcelflow/internal/handlers/rest/response"
	"parcelflow/internal/service/parcel"
)

// Handler публичное отслеживание, actor не требуется.
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
	ref := mux.Vars(r)["ref"]

	parcelEntity, err := h.service.GetParcel(r.Context(), ref)
	if err != nil {
		switch {
		case errors.Is(err, parcel.ErrParcelNotFound):
			response.Error(w, h.log, http.StatusNotFound, response.KindNotFound, err)
		case errors.Is(err, parcel.ErrInvalidReference):
			response.BadRequest(w, h.log, err)
		default:
			response.Internal(w, h.log, err)
		}
		return
	}

	response.JSON(w, h.log, http.StatusOK, dto.ParcelFromEntity(*parcelEntity))
}
