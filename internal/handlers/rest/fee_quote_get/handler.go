package fee_quote_get

import (
	"errors"
	"net/http"
	"strconv"

	"marketplace/internal/entities"
	"marketplace/internal/generated/dto"
	"marketplace/internal/handlers/rest/response"
)

var errInvalidQuery = errors.New("distance_km and weight_kg must be numbers")

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
	query := r.URL.Query()

	distanceKm, err := strconv.ParseFloat(query.Get("distance_km"), 64)
	if err != nil {
		response.BadRequest(w, h.log, errInvalidQuery.Error())
		return
	}
	weightKg, err := strconv.ParseFloat(query.Get("weight_kg"), 64)
	if err != nil {
		response.BadRequest(w, h.log, errInvalidQuery.Error())
		return
	}

	fragile := false
	if raw := query.Get("fragile"); raw != "" {
		fragile, err = strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, h.log, "fragile must be a boolean")
			return
		}
	}

	fee, err := h.service.ComputeFee(distanceKm, weightKg, fragile, entities.PaymentType(query.Get("payment_type")))
	if err != nil {
		response.Error(w, h.log, err)
		return
	}

	response.JSON(w, h.log, http.StatusOK, dto.FeeQuote{Fee: fee})
}
