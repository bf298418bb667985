package delivery_feedback_post

import (
	"encoding/json"
	"net/http"

	"github.com/AlekSi/pointer"
	"github.com/gorilla/mux"
	"marketplace/internal/entities"
	"marketplace/internal/generated/dto"
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

// ServeHTTP сохраняет отзыв от имени вызывающего. Кто может оставить отзыв,
// решает сервис.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, h.log)
		return
	}

	var feedbackDTO dto.FeedbackCreate
	err := json.NewDecoder(r.Body).Decode(&feedbackDTO)
	if err != nil {
		response.BadRequest(w, h.log, "invalid JSON body")
		return
	}

	updated, err := h.service.AttachFeedback(r.Context(), mux.Vars(r)["id"], entities.Feedback{
		Rating:   feedbackDTO.Rating,
		Comment:  pointer.Get(feedbackDTO.Comment),
		GivenBy:  s.Party.Role(),
		AuthorID: s.UserID,
	})
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	response.JSON(w, h.log, http.StatusOK, converters.DeliveryToDTO(updated))
}
