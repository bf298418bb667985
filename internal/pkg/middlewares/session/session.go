package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"marketplace/internal/entities"
	"marketplace/internal/generated/dto"
	"marketplace/pkg/logger"
)

// Заголовки, которые выставляет auth-шлюз.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserRole  = "X-User-Role"
	HeaderUserName  = "X-User-Name"
	HeaderUserPhone = "X-User-Phone"
)

var (
	ErrMissingIdentity = errors.New("missing user identity")
	ErrInvalidRole     = errors.New("invalid user role")
)

type ctxKey struct{}

// Parse собирает сессию из заголовков запроса.
func Parse(header http.Header) (entities.Session, error) {
	userID := strings.TrimSpace(header.Get(HeaderUserID))
	if userID == "" {
		return entities.Session{}, ErrMissingIdentity
	}

	name := strings.TrimSpace(header.Get(HeaderUserName))
	role := entities.Role(strings.ToLower(strings.TrimSpace(header.Get(HeaderUserRole))))

	switch role {
	case entities.RoleSeller:
		return entities.NewSession(entities.SellerParty{ID: userID, Name: name}), nil
	case entities.RoleDriver:
		phone := strings.TrimSpace(header.Get(HeaderUserPhone))
		return entities.NewSession(entities.DriverParty{ID: userID, Name: name, Phone: phone}), nil
	case entities.RoleCustomer:
		return entities.NewSession(entities.CustomerParty{ID: userID, Name: name}), nil
	default:
		return entities.Session{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
}

func NewContext(ctx context.Context, s entities.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (entities.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(entities.Session)
	return s, ok
}

// Middleware кладет сессию в контекст. Запрос без X-User-ID проходит
// анонимно, обработчик сам решает, нужна ли ему сессия.
func Middleware(log handlerLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := Parse(r.Header)
			if errors.Is(err, ErrMissingIdentity) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				log.With(
					logger.NewField("path", r.URL.Path),
					logger.NewField("error", err),
				).Warn("rejected session headers")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				err = json.NewEncoder(w).Encode(dto.Error{Error: "unauthorized", Message: err.Error()})
				if err != nil {
					log.With(
						logger.NewField("error", err),
					).Error("encode JSON response")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), s)))
		})
	}
}
