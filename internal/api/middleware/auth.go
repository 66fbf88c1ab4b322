// auth.go — middleware сессионной аутентификации Emostore.
// Проверяет сессионную cookie через auth.Manager и помещает
// идентификатор сессии в контекст запроса.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	apierrors "github.com/mkorolev/emostore/internal/api/errors"
	"github.com/mkorolev/emostore/internal/auth"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

// ContextKeySessionID — идентификатор сессии в контексте запроса.
const ContextKeySessionID contextKey = "session_id"

// SessionAuth — middleware, требующий валидную сессию администратора.
type SessionAuth struct {
	manager *auth.Manager
	logger  *slog.Logger
}

// NewSessionAuth создаёт middleware сессионной аутентификации.
func NewSessionAuth(manager *auth.Manager, logger *slog.Logger) *SessionAuth {
	return &SessionAuth{
		manager: manager,
		logger:  logger.With(slog.String("component", "session_auth")),
	}
}

// Middleware возвращает HTTP middleware, проверяющий сессионную cookie.
// При невалидной или отсутствующей сессии возвращает 401.
func (s *SessionAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := s.manager.Validate(r)
			if err != nil {
				s.logger.Debug("Сессия не прошла проверку",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				apierrors.Unauthorized(w, "Требуется аутентификация")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySessionID, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext извлекает идентификатор сессии из контекста запроса.
// Возвращает пустую строку, если сессия не найдена.
func SessionIDFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(ContextKeySessionID).(string)
	return sessionID
}
