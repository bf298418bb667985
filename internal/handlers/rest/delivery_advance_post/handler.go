package delivery_advance_post

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"marketplace/internal/generated/dto"
	"marketplace/internal/handlers/rest/converters"
	"marketplace/internal/handlers/rest/response"
	"marketplace/internal/pkg/middlewares/session"
	"marketplace/pkg/logger"
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
	s, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, h.log)
		return
	}
	driver, ok := s.Driver()
	if !ok {
		response.Error(w, h.log, response.ErrRoleNotAllowed)
		return
	}

	// тело необязательно, без него позиция не меняется
	var advanceDTO dto.DeliveryAdvance
	err := json.NewDecoder(r.Body).Decode(&advanceDTO)
	if err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, h.log, "invalid JSON body")
		return
	}

	deliveryID := mux.Vars(r)["id"]
	advanced, err := h.service.Advance(r.Context(), deliveryID, driver.ID, converters.CoordinateFromDTO(advanceDTO.Location))
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	h.log.With(
		logger.NewField("delivery_id", deliveryID),
		logger.NewField("status", advanced.Status.String()),
	).Info("delivery advanced")

	response.JSON(w, h.log, http.StatusOK, converters.DeliveryToDTO(advanced))
}
