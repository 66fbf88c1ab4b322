// Пакет auth — аутентификация администратора и управление сессиями.
// Сессия — подписанный JWT (HS256) в HTTP-only cookie, несущий идентификатор
// сессии и срок действия. Идентификатор сессии служит ключом last-shown
// состояния случайной выдачи.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookieName — имя cookie сессии.
const SessionCookieName = "emostore_session"

// Ошибки валидации сессии.
var (
	// ErrNoSession — cookie отсутствует.
	ErrNoSession = errors.New("сессия отсутствует")
	// ErrInvalidSession — подпись не сходится либо токен истёк.
	ErrInvalidSession = errors.New("некорректная или истёкшая сессия")
	// ErrWrongPassword — пароль администратора не совпал.
	ErrWrongPassword = errors.New("неверный пароль")
)

// Manager — менеджер admin-сессий.
type Manager struct {
	secret        []byte
	adminPassword string
	ttl           time.Duration
	secure        bool
}

// NewManager создаёт менеджер сессий.
// secret — ключ подписи JWT; пустой ключ заменяется случайным
// (сессии не переживают рестарт процесса).
func NewManager(secret, adminPassword string, ttl time.Duration, secure bool) (*Manager, error) {
	var key []byte
	if secret == "" {
		key = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			return nil, fmt.Errorf("генерация ключа сессии: %w", err)
		}
	} else {
		key = []byte(secret)
	}

	return &Manager{
		secret:        key,
		adminPassword: adminPassword,
		ttl:           ttl,
		secure:        secure,
	}, nil
}

// Login сверяет пароль (константное время) и при успехе выставляет cookie
// новой сессии. Возвращает идентификатор сессии.
func (m *Manager) Login(w http.ResponseWriter, password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(m.adminPassword)) != 1 {
		return "", ErrWrongPassword
	}

	sessionID := uuid.NewString()
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("подпись токена сессии: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return sessionID, nil
}

// Validate извлекает и проверяет cookie сессии запроса.
// Возвращает идентификатор сессии.
func (m *Manager) Validate(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", ErrNoSession
	}
	return m.ValidateToken(cookie.Value)
}

// ValidateToken проверяет подпись и срок действия токена сессии.
func (m *Manager) ValidateToken(raw string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidSession
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}

// Logout сбрасывает cookie сессии.
func (m *Manager) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
