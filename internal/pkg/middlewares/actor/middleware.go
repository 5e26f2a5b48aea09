package actor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"parcelflow/internal/entities"
	"parcelflow/internal/handlers/rest/response"
	"parcelflow/pkg/logger"
)

const (
	HeaderID        = "X-Actor-ID"
	HeaderRole      = "X-Actor-Role"
	HeaderStationID = "X-Actor-Station-ID"
)

var (
	ErrInvalidRole      = errors.New("invalid actor role")
	ErrInvalidStationID = errors.New("invalid actor station id")
	ErrMissingStation   = errors.New("admin actor requires a station id")
)

type ctxKey struct{}

type handlerLogger interface {
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

// Middleware переносит actor из заголовков шлюза аутентификации в контекст.
// Запрос без X-Actor-ID проходит анонимно, публичное отслеживание работает без actor.
func Middleware(log handlerLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.TrimSpace(r.Header.Get(HeaderID)) == "" {
				next.ServeHTTP(w, r)
				return
			}

			a, err := FromHeaders(r.Header)
			if err != nil {
				log.With(
					logger.NewField("path", r.URL.Path),
					logger.NewField("error", err),
				).Warn("reject actor headers")

				response.Error(w, log, http.StatusUnauthorized, response.KindUnauthenticated, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), a)))
		})
	}
}

func FromHeaders(h http.Header) (entities.Actor, error) {
	a := entities.Actor{
		ID:   strings.TrimSpace(h.Get(HeaderID)),
		Role: entities.ActorRole(strings.ToLower(strings.TrimSpace(h.Get(HeaderRole)))),
	}
	if !a.Role.IsValid() {
		return entities.Actor{}, fmt.Errorf("%w: %q", ErrInvalidRole, h.Get(HeaderRole))
	}

	raw := strings.TrimSpace(h.Get(HeaderStationID))
	if raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return entities.Actor{}, fmt.Errorf("%w: %q", ErrInvalidStationID, raw)
		}
		a.HomeStationID = &id
	}
	if a.Role == entities.RoleAdmin && a.HomeStationID == nil {
		return entities.Actor{}, ErrMissingStation
	}

	return a, nil
}

func WithActor(ctx context.Context, a entities.Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

func FromContext(ctx context.Context) (entities.Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(entities.Actor)
	return a, ok
}
