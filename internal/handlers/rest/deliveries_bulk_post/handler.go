package deliveries_bulk_post

import (
	"encoding/json"
	"net/http"

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

	var bulkDTO dto.DeliveryBulkCreate
	err := json.NewDecoder(r.Body).Decode(&bulkDTO)
	if err != nil {
		response.BadRequest(w, h.log, "invalid JSON body")
		return
	}

	creates := make([]entities.DeliveryCreate, len(bulkDTO.Deliveries))
	for i, createDTO := range bulkDTO.Deliveries {
		creates[i] = converters.DeliveryCreateFromDTO(createDTO)
	}

	created, err := h.service.BulkCreate(r.Context(), s, creates)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	ids := make([]string, len(created))
	for i := range created {
		ids[i] = created[i].ID
	}

	response.JSON(w, h.log, http.StatusCreated, dto.DeliveryBulkCreateResponse{IDs: ids})
}
