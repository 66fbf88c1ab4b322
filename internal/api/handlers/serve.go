// serve.go — отдача файлов и публичная случайная выдача.
// /files/{category}/{filename} — просмотр, .../download — выдача вложением.
// /{category} — публичный endpoint: случайный элемент категории без
// повторения последнего показанного в рамках сессии посетителя.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/mkorolev/emostore/internal/api/errors"
	"github.com/mkorolev/emostore/internal/domain/model"
	"github.com/mkorolev/emostore/internal/sanitize"
	"github.com/mkorolev/emostore/internal/service"
)

// visitorCookieName — анонимная cookie посетителя для анти-повтора
// случайной выдачи. Не связана с административной сессией.
const visitorCookieName = "emostore_visitor"

// visitorCookieTTL — срок жизни cookie посетителя.
const visitorCookieTTL = 24 * time.Hour

// ViewFile — GET /files/{category}/{filename}.
// Отдаёт локальный файл для просмотра (inline).
func (h *APIHandler) ViewFile(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, false)
}

// DownloadFile — GET /files/{category}/{filename}/download.
// Отдаёт локальный файл вложением.
func (h *APIHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, true)
}

// serveFile отдаёт файл категории. Имя файла обязано проходить санитизацию
// без изменений — изменённое имя означает попытку выхода из каталога.
func (h *APIHandler) serveFile(w http.ResponseWriter, r *http.Request, asAttachment bool) {
	category := chi.URLParam(r, "category")
	filename := chi.URLParam(r, "filename")

	if !sanitize.IsClean(filename) {
		apierrors.ValidationError(w, "Недопустимое имя файла")
		return
	}

	path, err := h.catalog.FilePath(category, filename)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Файл не найден")
			return
		}
		h.logger.Error("Ошибка доступа к файлу",
			slog.String("category", category),
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Ошибка доступа к файлу")
		return
	}

	if asAttachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	http.ServeFile(w, r, path)
}

// ServeRandom — GET /{category} (публичный).
// Выбирает случайный элемент категории, исключая последний показанный этой
// сессии посетителя (если кандидатов больше одного). Локальный файл отдаётся
// напрямую, внешняя ссылка — редиректом 302.
func (h *APIHandler) ServeRandom(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	items, err := h.catalog.All(category)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apierrors.NotFound(w, "Категория не найдена")
			return
		}
		h.logger.Error("Ошибка получения элементов категории",
			slog.String("category", category),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Ошибка получения элементов категории")
		return
	}
	if len(items) == 0 {
		apierrors.NotFound(w, "Категория пуста")
		return
	}

	visitorID := h.visitorID(w, r)

	var previous *service.ShownItem
	if shown, ok := h.lastShown.Get(visitorID, category); ok {
		previous = &shown
	}

	chosen := service.SelectRandom(items, previous, rand.Intn)
	if chosen == nil {
		apierrors.NotFound(w, "Категория пуста")
		return
	}

	h.lastShown.Set(visitorID, category, service.ShownItem{
		ID:   chosen.ID,
		Type: chosen.Type,
	})

	switch chosen.Type {
	case model.ItemTypeExternal:
		http.Redirect(w, r, chosen.ViewPath, http.StatusFound)
	case model.ItemTypeLocal:
		path, err := h.catalog.FilePath(category, chosen.ID)
		if err != nil {
			// Файл исчез между листингом и отдачей — обычный not found.
			apierrors.NotFound(w, "Файл не найден")
			return
		}
		http.ServeFile(w, r, path)
	default:
		h.logger.Error("Неизвестный тип элемента каталога",
			slog.String("category", category),
			slog.String("type", string(chosen.Type)),
		)
		apierrors.InternalError(w, "Неизвестный тип элемента")
	}
}

// visitorID возвращает идентификатор сессии посетителя из cookie,
// устанавливая новую cookie при отсутствии.
func (h *APIHandler) visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(visitorCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(visitorCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
