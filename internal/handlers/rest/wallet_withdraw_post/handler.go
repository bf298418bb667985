package wallet_withdraw_post

import (
	"encoding/json"
	"net/http"

	"marketplace/internal/generated/dto"
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

	var withdrawDTO dto.WalletWithdraw
	err := json.NewDecoder(r.Body).Decode(&withdrawDTO)
	if err != nil {
		response.BadRequest(w, h.log, "invalid JSON body")
		return
	}

	balance, err := h.service.Debit(r.Context(), s.UserID, withdrawDTO.Amount)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	h.log.With(
		logger.NewField("user_id", s.UserID),
		logger.NewField("amount", withdrawDTO.Amount),
	).Info("wallet withdrawal")

	response.JSON(w, h.log, http.StatusOK, dto.WalletBalance{
		UserID:  s.UserID,
		Balance: balance,
	})
}
