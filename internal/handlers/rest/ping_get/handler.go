package ping_get

import (
	"net/http"

	"marketplace/internal/generated/dto"
	"marketplace/internal/handlers/rest/response"
	"marketplace/internal/pkg/middlewares/session"
)

type Handler struct {
	log handlerLogger
}

func New(log handlerLogger) *Handler {
	handlerLog := log.With()

	return &Handler{
		log: handlerLog,
	}
}

// ServeHTTP отвечает pong. Для запроса с сессией добавляет роль,
// чтобы клиент мог проверить, как его видит auth-шлюз.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	message := "pong"
	resp := dto.PingResponse{Message: &message}

	if s, ok := session.FromContext(r.Context()); ok {
		role := dto.Role(s.Party.Role())
		resp.Role = &role
	}

	response.JSON(w, h.log, http.StatusOK, resp)
}
