package driver_earnings_get

import (
	"net/http"
	"time"

	"marketplace/internal/handlers/rest/converters"
	"marketplace/internal/handlers/rest/response"
	"marketplace/internal/pkg/middlewares/session"
)

type Handler struct {
	log     handlerLogger
	service Service
	now     func() time.Time
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:     handlerLog,
		service: service,
		now:     time.Now,
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

	earnings, err := h.service.DriverEarnings(r.Context(), driver.ID, h.now().UTC())
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	response.JSON(w, h.log, http.StatusOK, converters.DriverEarningsToDTO(earnings))
}
