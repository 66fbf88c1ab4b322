// auth.go — обработчики /api/v1/auth endpoints.
// Вход по паролю администратора и выход с очисткой сессии.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/mkorolev/emostore/internal/api/errors"
	"github.com/mkorolev/emostore/internal/auth"
)

// loginRequest — тело запроса POST /api/v1/auth/login.
type loginRequest struct {
	Password string `json:"password"`
}

// Login — POST /api/v1/auth/login.
// Проверяет пароль администратора и устанавливает сессионную cookie.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}
	if req.Password == "" {
		apierrors.ValidationError(w, "Пароль обязателен")
		return
	}

	sessionID, err := h.sessions.Login(w, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWrongPassword) {
			h.logger.Warn("Неудачная попытка входа",
				slog.String("remote_addr", r.RemoteAddr),
			)
			apierrors.Unauthorized(w, "Неверный пароль")
			return
		}
		h.logger.Error("Ошибка создания сессии", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Ошибка создания сессии")
		return
	}

	h.logger.Info("Администратор вошёл в систему",
		slog.String("session_id", sessionID),
	)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Logout — POST /api/v1/auth/logout.
// Сбрасывает сессионную cookie и очищает состояние последних показов сессии.
// Доступен без валидной сессии: просроченная cookie тоже должна сбрасываться.
func (h *APIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID, err := h.sessions.Validate(r); err == nil {
		h.lastShown.ClearSession(sessionID)
	}
	h.sessions.Logout(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
