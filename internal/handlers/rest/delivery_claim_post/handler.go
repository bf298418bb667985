package delivery_claim_post

import (
	"net/http"

	"github.com/gorilla/mux"
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

	deliveryID := mux.Vars(r)["id"]
	claimed, err := h.service.Claim(r.Context(), deliveryID, driver)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	h.log.With(
		logger.NewField("delivery_id", deliveryID),
		logger.NewField("driver_id", driver.ID),
	).Info("delivery claimed")

	response.JSON(w, h.log, http.StatusOK, converters.DeliveryToDTO(claimed))
}
