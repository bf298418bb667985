package delivery_proof_post

import (
	"encoding/json"
	"net/http"

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

	var proofDTO dto.ProofCreate
	err := json.NewDecoder(r.Body).Decode(&proofDTO)
	if err != nil {
		response.BadRequest(w, h.log, "invalid JSON body")
		return
	}

	updated, err := h.service.AttachProof(r.Context(), mux.Vars(r)["id"], entities.ProofOfDelivery{
		Type:       entities.ProofType(proofDTO.Type),
		Payload:    proofDTO.Payload,
		UploadedBy: driver.ID,
	})
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	response.JSON(w, h.log, http.StatusOK, converters.DeliveryToDTO(updated))
}
