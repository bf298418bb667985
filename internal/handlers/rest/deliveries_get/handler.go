package deliveries_get

import (
	"net/http"

	"marketplace/internal/entities"
	"marketplace/internal/handlers/rest/converters"
	"marketplace/internal/handlers/rest/response"
	"marketplace/internal/pkg/middlewares/session"
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

// ServeHTTP отдает доставки по статусу (?status=pending), а без фильтра
// доставки самого вызывающего: продавца или водителя.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, h.log)
		return
	}

	var (
		deliveries []entities.Delivery
		err        error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		deliveries, err = h.service.ListByStatus(r.Context(), entities.DeliveryStatus(status))
	} else {
		role := s.Party.Role()
		if role != entities.RoleSeller && role != entities.RoleDriver {
			response.Error(w, h.log, response.ErrRoleNotAllowed)
			return
		}
		deliveries, err = h.service.ListByParty(r.Context(), role, s.UserID)
	}
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	response.JSON(w, h.log, http.StatusOK, converters.DeliveriesToDTO(deliveries))
}
