package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"marketplace/internal/entities"
	"marketplace/internal/generated/dto"
	"marketplace/pkg/logger"
)

type encodeLogger interface {
	With(fields ...logger.Field) logger.Logger
}

// Коды ошибок в теле ответа.
const (
	CodeValidation        = "validation_error"
	CodeUnauthorized      = "unauthorized"
	CodeAuthorization     = "authorization_error"
	CodeNotFound          = "not_found"
	CodeConflict          = "conflict"
	CodeInvalidTransition = "invalid_transition"
	CodeInsufficientFunds = "insufficient_funds"
	CodeTimeout           = "timeout"
	CodeInternal          = "internal_error"
)

var errSessionRequired = errors.New("session is required")

// StatusFor сопоставляет вид ошибки с HTTP статусом.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, entities.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, entities.ErrAuthorization):
		return http.StatusForbidden, CodeAuthorization
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, entities.ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, entities.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, CodeInvalidTransition
	case errors.Is(err, entities.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, CodeInsufficientFunds
	case errors.Is(err, entities.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func JSON(w http.ResponseWriter, log encodeLogger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}

// Error пишет ошибку сервиса. Текст внутренних ошибок наружу не отдается.
func Error(w http.ResponseWriter, log encodeLogger, err error) {
	status, code := StatusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.With(
			logger.NewField("error", err),
		).Error("request failed")
		message = http.StatusText(status)
	}

	JSON(w, log, status, dto.Error{Error: code, Message: message})
}

func BadRequest(w http.ResponseWriter, log encodeLogger, message string) {
	JSON(w, log, http.StatusBadRequest, dto.Error{Error: CodeValidation, Message: message})
}

func Unauthorized(w http.ResponseWriter, log encodeLogger) {
	JSON(w, log, http.StatusUnauthorized, dto.Error{Error: CodeUnauthorized, Message: errSessionRequired.Error()})
}

// ErrRoleNotAllowed - роль сессии не подходит для операции.
var ErrRoleNotAllowed = fmt.Errorf("%w: role is not allowed for this operation", entities.ErrAuthorization)
