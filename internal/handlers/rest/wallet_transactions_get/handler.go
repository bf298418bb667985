package wallet_transactions_get

import (
	"net/http"
	"strconv"

	"marketplace/internal/handlers/rest/converters"
	"marketplace/internal/handlers/rest/response"
	"marketplace/internal/pkg/middlewares/session"
)

const DefaultLimit = 20

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

	limit, ok := intParam(r, "limit", DefaultLimit)
	if !ok {
		response.BadRequest(w, h.log, "limit must be an integer")
		return
	}
	offset, ok := intParam(r, "offset", 0)
	if !ok {
		response.BadRequest(w, h.log, "offset must be an integer")
		return
	}

	page, err := h.service.GetHistory(r.Context(), s.UserID, limit, offset)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	response.JSON(w, h.log, http.StatusOK, converters.HistoryPageToDTO(page))
}

func intParam(r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
