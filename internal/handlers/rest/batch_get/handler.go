package batch_get

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"parcelflow/internal/handlers/rest/dto"
	"parcelflow/internal/handlers/rest/response"
	"parcelflow/internal/service/batch"
)

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
	batchEntity, err := h.service.SearchBatch(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		switch {
		case errors.Is(err, batch.ErrBatchNotFound):
			response.Error(w, h.log, http.StatusNotFound, response.KindNotFound, err)
		case errors.Is(err, batch.ErrInvalidBatchCode):
			response.BadRequest(w, h.log, err)
		default:
			response.Internal(w, h.log, err)
		}
		return
	}

	response.JSON(w, h.log, http.StatusOK, dto.BatchFromEntity(*batchEntity))
}
